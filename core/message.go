package core

import (
	"sync"

	"github.com/ikilobyte/evcore/iface"
)

//Closure 跨线程投递的一次性闭包，最多执行一次，第二次Invoke是空操作
//被捕获变量的线程安全由调用方自己保证，这里只负责call-once语义
type Closure struct {
	once sync.Once
	fn   func(core iface.ICore, reactor iface.IReactor)
}

//NewClosure 包装一个只执行一次的闭包
func NewClosure(fn func(core iface.ICore, reactor iface.IReactor)) *Closure {
	return &Closure{fn: fn}
}

//Invoke 执行闭包，执行完把引用放掉让捕获的变量能被回收
func (c *Closure) Invoke(core iface.ICore, reactor iface.IReactor) {
	c.once.Do(func() {
		fn := c.fn
		c.fn = nil
		fn(core, reactor)
	})
}
