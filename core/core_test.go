package core

import (
	"testing"
	"time"

	"github.com/ikilobyte/evcore/common"
	"github.com/ikilobyte/evcore/iface"
	"github.com/stretchr/testify/require"
)

//stubReactor 单测用的reactor，所有操作都是空实现
type stubReactor struct{}

func (s *stubReactor) AddRead(fd int, token common.Token) error           { return nil }
func (s *stubReactor) AddWrite(fd int, token common.Token) error          { return nil }
func (s *stubReactor) ModReadWrite(fd int, token common.Token) error      { return nil }
func (s *stubReactor) Remove(fd int) error                                { return nil }
func (s *stubReactor) AddTimer(token common.Token, d time.Duration) error { return nil }
func (s *stubReactor) DelTimer(token common.Token) error                  { return nil }
func (s *stubReactor) Notify(msg iface.IClosure) error                    { return nil }
func (s *stubReactor) Close() error                                       { return nil }

//recordState 记录每个回调被调用的情况
type recordState struct {
	readyCalls     int
	readyToken     common.Token
	readyEvents    common.EventSet
	timeoutCalls   int
	timeoutToken   common.Token
	terminateCalls int
}

func (r *recordState) OnReady(core iface.ICore, reactor iface.IReactor, token common.Token, events common.EventSet) {
	r.readyCalls++
	r.readyToken = token
	r.readyEvents = events
}

func (r *recordState) OnTimeout(core iface.ICore, reactor iface.IReactor, token common.Token) {
	r.timeoutCalls++
	r.timeoutToken = token
}

func (r *recordState) OnTerminate(core iface.ICore, reactor iface.IReactor) {
	r.terminateCalls++
}

func TestGetNewToken(t *testing.T) {
	c := New()

	first := c.GetNewToken()
	second := c.GetNewToken()
	third := c.GetNewToken()

	require.Equal(t, common.Token(0), first)
	require.Equal(t, common.Token(1), second)
	require.Equal(t, common.Token(2), third)
}

func TestGetNewContextWithSeed(t *testing.T) {
	c := New(WithContextCounter(100))

	require.Equal(t, common.Context(100), c.GetNewContext())
	require.Equal(t, common.Context(101), c.GetNewContext())
}

func TestGetNewTokenWithSeed(t *testing.T) {
	c := New(WithTokenCounter(7))

	require.Equal(t, common.Token(7), c.GetNewToken())
	require.Equal(t, common.Token(8), c.GetNewToken())
}

func TestInsertContext(t *testing.T) {
	c := New()

	prev, ok := c.InsertContext(5, 7)
	require.False(t, ok)
	require.Equal(t, common.Context(0), prev)

	ctx, ok := c.GetContext(5)
	require.True(t, ok)
	require.Equal(t, common.Context(7), ctx)

	// 重复绑定返回之前的绑定
	prev, ok = c.InsertContext(5, 9)
	require.True(t, ok)
	require.Equal(t, common.Context(7), prev)

	ctx, ok = c.GetContext(5)
	require.True(t, ok)
	require.Equal(t, common.Context(9), ctx)
}

func TestRemoveContext(t *testing.T) {
	c := New()

	c.InsertContext(5, 7)
	prev, ok := c.RemoveContext(5)
	require.True(t, ok)
	require.Equal(t, common.Context(7), prev)

	_, ok = c.GetContext(5)
	require.False(t, ok)

	// 再删一次是空操作
	_, ok = c.RemoveContext(5)
	require.False(t, ok)
}

func TestInsertState(t *testing.T) {
	c := New()
	first := new(recordState)
	second := new(recordState)

	require.Nil(t, c.InsertState(7, first))
	require.Same(t, first, c.GetState(7))

	// 覆盖绑定返回之前的state
	prev := c.InsertState(7, second)
	require.Same(t, first, prev)
	require.Same(t, second, c.GetState(7))
}

func TestRemoveState(t *testing.T) {
	c := New()
	state := new(recordState)

	c.InsertState(7, state)
	require.Same(t, state, c.RemoveState(7))
	require.Nil(t, c.GetState(7))
	require.Nil(t, c.RemoveState(7))
}

func TestOnReady(t *testing.T) {
	c := New()
	reactor := new(stubReactor)
	state := new(recordState)

	c.InsertContext(5, 7)
	c.InsertState(7, state)

	c.OnReady(reactor, 5, common.EventReadable)

	require.Equal(t, 1, state.readyCalls)
	require.Equal(t, common.Token(5), state.readyToken)
	require.Equal(t, common.EventReadable, state.readyEvents)
}

func TestOnReadyUnboundToken(t *testing.T) {
	c := New()
	reactor := new(stubReactor)
	state := new(recordState)

	c.InsertContext(5, 7)
	c.InsertState(7, state)
	c.RemoveContext(5)

	// 注销后到达的在途事件直接丢弃
	c.OnReady(reactor, 5, common.EventReadable)
	require.Equal(t, 0, state.readyCalls)
}

func TestOnReadyDanglingContext(t *testing.T) {
	c := New()
	reactor := new(stubReactor)

	// token绑定了context，但state还没插入
	c.InsertContext(5, 7)
	c.OnReady(reactor, 5, common.EventReadable)

	// 不会panic，也不会有任何副作用
	ctx, ok := c.GetContext(5)
	require.True(t, ok)
	require.Equal(t, common.Context(7), ctx)
}

func TestOnTimeout(t *testing.T) {
	c := New()
	reactor := new(stubReactor)
	state := new(recordState)

	c.InsertContext(3, 4)
	c.InsertState(4, state)

	c.OnTimeout(reactor, 3)

	require.Equal(t, 1, state.timeoutCalls)
	require.Equal(t, common.Token(3), state.timeoutToken)

	c.OnTimeout(reactor, 99)
	require.Equal(t, 1, state.timeoutCalls)
}

func TestTerminateState(t *testing.T) {
	c := New()
	reactor := new(stubReactor)
	state := new(recordState)

	c.InsertState(7, state)
	c.TerminateState(reactor, 7)

	require.Equal(t, 1, state.terminateCalls)

	// 注册表里的条目由state自己清理，这里不会动
	require.Same(t, state, c.GetState(7))

	// context没有state时是空操作
	c.TerminateState(reactor, 42)
}

func TestOnNotify(t *testing.T) {
	c := New()
	reactor := new(stubReactor)

	invoked := false
	c.OnNotify(reactor, NewClosure(func(core iface.ICore, r iface.IReactor) {
		invoked = true
		require.Same(t, c, core)
		require.Same(t, reactor, r)
	}))

	require.True(t, invoked)
}

//terminator 在OnReady里终止另一个state，验证回调里递归操作注册表
type terminator struct {
	recordState
	victim common.Context
}

func (s *terminator) OnReady(core iface.ICore, reactor iface.IReactor, token common.Token, events common.EventSet) {
	s.recordState.OnReady(core, reactor, token, events)
	core.TerminateState(reactor, s.victim)
}

//selfCleaner OnTerminate的时候把自己从注册表里摘掉
type selfCleaner struct {
	recordState
	ctx   common.Context
	token common.Token
}

func (s *selfCleaner) OnTerminate(core iface.ICore, reactor iface.IReactor) {
	s.recordState.OnTerminate(core, reactor)
	core.RemoveContext(s.token)
	core.RemoveState(s.ctx)
}

func TestReentrantDispatch(t *testing.T) {
	c := New()
	reactor := new(stubReactor)

	victim := &selfCleaner{ctx: 2, token: 20}
	c.InsertContext(20, 2)
	c.InsertState(2, victim)

	killer := &terminator{victim: 2}
	c.InsertContext(10, 1)
	c.InsertState(1, killer)

	c.OnReady(reactor, 10, common.EventReadable)

	require.Equal(t, 1, killer.readyCalls)
	require.Equal(t, 1, victim.terminateCalls)
	require.Nil(t, c.GetState(2))
	_, ok := c.GetContext(20)
	require.False(t, ok)
}
