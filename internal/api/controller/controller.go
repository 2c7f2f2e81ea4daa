package controller

import (
	measureService "github.com/ougirez/aquagas/internal/service/measure"
)

type Controller struct {
	service *measureService.Service
}

func NewController(service *measureService.Service) *Controller {
	return &Controller{service: service}
}
