package iface

import "github.com/ikilobyte/evcore/common"

//ICore 标识生成器和注册表，查不到一律返回零值，不会返回error
type ICore interface {
	GetNewToken() common.Token
	GetNewContext() common.Context
	InsertContext(token common.Token, ctx common.Context) (common.Context, bool)
	RemoveContext(token common.Token) (common.Context, bool)
	GetContext(token common.Token) (common.Context, bool)
	InsertState(ctx common.Context, state IState) IState
	RemoveState(ctx common.Context) IState
	GetState(ctx common.Context) IState
	TerminateState(reactor IReactor, ctx common.Context)
}
