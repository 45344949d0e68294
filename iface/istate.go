package iface

import "github.com/ikilobyte/evcore/common"

//IState 挂在事件循环上的逻辑单元，协议状态机都要实现这个接口
//三个回调都在loop线程中执行，可以放心地在回调里操作core和reactor
type IState interface {
	OnReady(core ICore, reactor IReactor, token common.Token, events common.EventSet)
	OnTimeout(core ICore, reactor IReactor, token common.Token)
	OnTerminate(core ICore, reactor IReactor)
}
