package iface

//IClosure 其它线程投递到loop线程的一次性闭包，重复Invoke是空操作
type IClosure interface {
	Invoke(core ICore, reactor IReactor)
}
