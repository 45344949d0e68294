//go:build linux
// +build linux

package eventloop

import (
	"runtime"

	"github.com/ikilobyte/evcore/core"
	"github.com/ikilobyte/evcore/iface"
)

//Loop 把Core和Poller组装成一条完整的事件循环
type Loop struct {
	core   *core.Core
	poller *Poller
}

//NewLoop 创建事件循环，可选项透传给Core
func NewLoop(opts ...core.Option) (*Loop, error) {

	poller, err := NewPoller(0)
	if err != nil {
		return nil, err
	}

	return &Loop{
		core:   core.New(opts...),
		poller: poller,
	}, nil
}

//Core 获取core，注册state用
func (l *Loop) Core() *core.Core {
	return l.core
}

//Reactor 获取reactor，注册fd和定时器用
func (l *Loop) Reactor() iface.IReactor {
	return l.poller
}

//Run 在当前goroutine上跑事件循环，Close之前不会返回
//锁住OS线程，保证所有回调都在同一条线程里执行
func (l *Loop) Run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	l.poller.Wait(l.core)
}

//Close 停止事件循环
func (l *Loop) Close() error {
	return l.poller.Close()
}
