package iface

import (
	"time"

	"github.com/ikilobyte/evcore/common"
)

//IReactor 事件循环抽象层，state通过这个来注册、注销自己的资源
type IReactor interface {
	AddRead(fd int, token common.Token) error
	AddWrite(fd int, token common.Token) error
	ModReadWrite(fd int, token common.Token) error
	Remove(fd int) error
	AddTimer(token common.Token, d time.Duration) error
	DelTimer(token common.Token) error
	Notify(msg IClosure) error
	Close() error
}
