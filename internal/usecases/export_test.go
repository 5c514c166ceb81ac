package usecases

func (u *AuthUsecase) DummyPasswordHash() string {
	return u.dummyPasswordHash()
}
