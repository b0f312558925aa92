package model

type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformX         Platform = "x"
)
