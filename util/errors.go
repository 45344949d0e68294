package util

import "errors"

var TimerNotFound = errors.New("timer not found")
var NotifyClosed = errors.New("notify channel closed")
