package actions

import "github.com/m-mizutani/goerr/v2"

var (
	ErrValidation     = goerr.New("invalid action arguments")
	ErrPastTime       = goerr.New("time already passed")
	ErrUnresolvedTime = goerr.New("time expression not understood")
	ErrStore          = goerr.New("storage failure")
	ErrUnknownAction  = goerr.New("unknown action")
)
