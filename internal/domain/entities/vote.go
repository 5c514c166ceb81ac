package entities

// VoteDirection is the wire discriminator for a vote
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Delta converts the direction to the counter increment.
func (d VoteDirection) Delta() int {
	if d == VoteUp {
		return 1
	}
	return -1
}

// VoteInput represents input for casting a vote
type VoteInput struct {
	Value VoteDirection `json:"value" binding:"required,oneof=up down"`
}

// Valid reports whether d is a known direction.
func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}
