package common

//Token 事件循环分配的资源标识，一个fd或者一个定时器对应一个Token
type Token int

//Context 核心分配的逻辑单元标识，重连后fd变了Context也不会变
type Context int

//EventSet IO事件集合，和epoll的事件位一一对应
type EventSet uint32

const (
	EventReadable EventSet = 1 << iota // 可读
	EventWritable                      // 可写
	EventError                         // 出错
	EventHup                           // 对端挂断
)

//Readable 是否可读
func (e EventSet) Readable() bool {
	return e&EventReadable != 0
}

//Writable 是否可写
func (e EventSet) Writable() bool {
	return e&EventWritable != 0
}

//HasError 是否出错
func (e EventSet) HasError() bool {
	return e&EventError != 0
}

//HasHup 对端是否挂断
func (e EventSet) HasHup() bool {
	return e&EventHup != 0
}
