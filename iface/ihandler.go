package iface

import "github.com/ikilobyte/evcore/common"

//IEventHandler reactor把原始事件交给这个接口分发
type IEventHandler interface {
	OnReady(reactor IReactor, token common.Token, events common.EventSet)
	OnTimeout(reactor IReactor, token common.Token)
	OnNotify(reactor IReactor, msg IClosure)
}
