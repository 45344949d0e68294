package core

import (
	"github.com/ikilobyte/evcore/common"
	"github.com/ikilobyte/evcore/iface"
	"github.com/ikilobyte/evcore/util"
)

//Core 事件循环的核心，保存token=>context、context=>state两张映射
//只会在loop线程中访问，所以不需要加锁，回调里可以递归地改注册表
type Core struct {
	tokenCounter   int
	contextCounter int
	contexts       map[common.Token]common.Context
	states         map[common.Context]iface.IState
	options        *Options
}

//New 创建Core，通过WithContextCounter可以预留一段context
func New(opts ...Option) *Core {

	options := parseOption(opts...)

	if options.LogPath != "" {
		if err := util.SetLogPath(options.LogPath); err != nil {
			util.Logger.WithField("error", err).Error("set log path")
		}
	}

	return &Core{
		tokenCounter:   options.TokenCounter,
		contextCounter: options.ContextCounter,
		contexts:       make(map[common.Token]common.Context),
		states:         make(map[common.Context]iface.IState),
		options:        options,
	}
}

//GetNewToken 生成一个新的token，溢出时靠int自身回绕
//需要在reactor注册之前就拿到标识的场景（比如定时器）会用到
func (c *Core) GetNewToken() common.Token {
	next := common.Token(c.tokenCounter)
	c.tokenCounter++
	return next
}

//GetNewContext 生成一个新的context，溢出时靠int自身回绕
//回绕后的冲突这里不做检查，前提是活跃的context数量远小于int的范围
func (c *Core) GetNewContext() common.Context {
	next := common.Context(c.contextCounter)
	c.contextCounter++
	return next
}

//InsertContext 将token绑定到context上，返回之前的绑定
//允许先绑定token再插入state，悬空的绑定不算错误
func (c *Core) InsertContext(token common.Token, ctx common.Context) (common.Context, bool) {
	prev, ok := c.contexts[token]
	c.contexts[token] = ctx
	return prev, ok
}

//RemoveContext 解除token的绑定，返回之前的绑定
func (c *Core) RemoveContext(token common.Token) (common.Context, bool) {
	prev, ok := c.contexts[token]
	if ok {
		delete(c.contexts, token)
	}
	return prev, ok
}

//GetContext 通过token获取context
func (c *Core) GetContext(token common.Token) (common.Context, bool) {
	ctx, ok := c.contexts[token]
	return ctx, ok
}

//InsertState 将state绑定到context上，返回之前的state，没有则返回nil
func (c *Core) InsertState(ctx common.Context, state iface.IState) iface.IState {
	prev := c.states[ctx]
	c.states[ctx] = state
	return prev
}

//RemoveState 删除context对应的state并返回，没有则返回nil
//token的绑定不会级联删除，由reactor的注销事件来驱动清理
func (c *Core) RemoveState(ctx common.Context) iface.IState {
	prev := c.states[ctx]
	if prev != nil {
		delete(c.states, ctx)
	}
	return prev
}

//GetState 通过context获取state，没有则返回nil
func (c *Core) GetState(ctx common.Context) iface.IState {
	return c.states[ctx]
}

//TerminateState 调用state的OnTerminate，给它注销资源的机会
//注册表里的条目不在这里删，由state自己负责清理
func (c *Core) TerminateState(reactor iface.IReactor, ctx common.Context) {
	if state := c.GetState(ctx); state != nil {
		state.OnTerminate(c, reactor)
	}
}

//OnReady 分发IO就绪事件，token或state查不到时直接丢弃
//注销和在途事件之间有竞争，查不到属于正常情况
func (c *Core) OnReady(reactor iface.IReactor, token common.Token, events common.EventSet) {
	ctx, ok := c.contexts[token]
	if !ok {
		return
	}
	state := c.states[ctx]
	if state == nil {
		return
	}
	state.OnReady(c, reactor, token, events)
}

//OnTimeout 分发定时器到期事件，和OnReady走同一套解析
func (c *Core) OnTimeout(reactor iface.IReactor, token common.Token) {
	ctx, ok := c.contexts[token]
	if !ok {
		return
	}
	state := c.states[ctx]
	if state == nil {
		return
	}
	state.OnTimeout(c, reactor, token)
}

//OnNotify 执行其它线程投递过来的闭包，不经过注册表
func (c *Core) OnNotify(reactor iface.IReactor, msg iface.IClosure) {
	msg.Invoke(c, reactor)
}
