package container

import (
	app "click2label/internal/application"
	"click2label/internal/domain/port"
)

type Container struct {
	UserService  *app.UserService
	LabelService *app.LabelService
}

func New(userRepo port.UserRepository, labelRepo port.LabelRepository, source port.ImageSource, sessionCfg app.SessionConfig) *Container {
	userService := app.NewUserService(userRepo)
	labelService := app.NewLabelService(userService, source, labelRepo, sessionCfg)

	return &Container{
		UserService:  userService,
		LabelService: labelService,
	}
}
