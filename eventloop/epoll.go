//go:build linux
// +build linux

package eventloop

import (
	"sync"
	"time"

	"github.com/eapache/queue"
	"github.com/ikilobyte/evcore/common"
	"github.com/ikilobyte/evcore/iface"
	"github.com/ikilobyte/evcore/util"
	"golang.org/x/sys/unix"
)

//eventfd是8字节的计数器，写1进去就能唤醒epoll_wait
var wakeBytes = []byte{1, 0, 0, 0, 0, 0, 0, 0}

//Poller 基于epoll的reactor，一个Poller只配一条loop线程
//除了pending队列，其余字段都只会在loop线程中访问
type Poller struct {
	epfd     int               // eventpoll fd
	wakeFd   int               // eventfd，用来跨线程唤醒
	events   []unix.EpollEvent // epoll_wait的收集缓冲
	timerFds map[common.Token]int
	isTimer  map[int]common.Token // timerfd => token，用来区分定时器和普通fd
	pending  *queue.Queue         // 待执行的闭包
	mu       sync.Mutex           // 保护pending和closed
	closed   bool
}

//NewPoller 创建epoll，同时创建用于跨线程唤醒的eventfd
func NewPoller(maxEvents int) (*Poller, error) {

	if maxEvents <= 0 {
		maxEvents = 128
	}

	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}

	wakeFd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		_ = unix.Close(epfd)
		return nil, err
	}

	poller := &Poller{
		epfd:     epfd,
		wakeFd:   wakeFd,
		events:   make([]unix.EpollEvent, maxEvents),
		timerFds: make(map[common.Token]int),
		isTimer:  make(map[int]common.Token),
		pending:  queue.New(),
	}

	// eventfd也挂在同一个epoll上
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakeFd, &unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(wakeFd),
	}); err != nil {
		_ = unix.Close(wakeFd)
		_ = unix.Close(epfd)
		return nil, err
	}

	return poller, nil
}

//AddRead 添加读事件，token放在Pad中带回来
func (p *Poller) AddRead(fd int, token common.Token) error {
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{
		Events: unix.EPOLLIN | unix.EPOLLPRI,
		Fd:     int32(fd),
		Pad:    int32(token),
	})
}

//AddWrite 添加可写事件
func (p *Poller) AddWrite(fd int, token common.Token) error {
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{
		Events: unix.EPOLLOUT,
		Fd:     int32(fd),
		Pad:    int32(token),
	})
}

//ModReadWrite 修改成读写都关注
func (p *Poller) ModReadWrite(fd int, token common.Token) error {
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, &unix.EpollEvent{
		Events: unix.EPOLLIN | unix.EPOLLPRI | unix.EPOLLOUT,
		Fd:     int32(fd),
		Pad:    int32(token),
	})
}

//Remove 删除某个fd的事件
func (p *Poller) Remove(fd int) error {
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

//AddTimer 添加一个一次性定时器，到期后以OnTimeout(token)的形式分发
//token由core提前生成，所以注册表可以在定时器创建前就绑定好
func (p *Poller) AddTimer(token common.Token, d time.Duration) error {

	if d <= 0 {
		d = time.Nanosecond
	}

	tfd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		return err
	}

	spec := unix.ItimerSpec{
		Value: unix.NsecToTimespec(d.Nanoseconds()),
	}
	if err := unix.TimerfdSettime(tfd, 0, &spec, nil); err != nil {
		_ = unix.Close(tfd)
		return err
	}

	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, tfd, &unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(tfd),
		Pad:    int32(token),
	}); err != nil {
		_ = unix.Close(tfd)
		return err
	}

	p.timerFds[token] = tfd
	p.isTimer[tfd] = token
	return nil
}

//DelTimer 取消还没到期的定时器
func (p *Poller) DelTimer(token common.Token) error {

	tfd, ok := p.timerFds[token]
	if !ok {
		return util.TimerNotFound
	}

	delete(p.timerFds, token)
	delete(p.isTimer, tfd)
	_ = unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, tfd, nil)
	return unix.Close(tfd)
}

//Notify 其它线程通过这里把闭包投递到loop线程，这是惟一的并发入口
func (p *Poller) Notify(msg iface.IClosure) error {

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return util.NotifyClosed
	}
	p.pending.Add(msg)
	p.mu.Unlock()

	for {
		_, err := unix.Write(p.wakeFd, wakeBytes)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			// 计数器满了说明唤醒已经在路上
			return nil
		}
		return err
	}
}

//Wait 等待事件到达，按到达顺序分发给handler，调用方所在的goroutine就是loop线程
func (p *Poller) Wait(handler iface.IEventHandler) {

	for {
		n, err := unix.EpollWait(p.epfd, p.events, -1)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}

			p.mu.Lock()
			closed := p.closed
			p.mu.Unlock()
			if !closed {
				util.Logger.WithField("error", err).Error("epoll wait")
			}
			return
		}

		for i := 0; i < n; i++ {
			event := p.events[i]
			fd := int(event.Fd)

			// 跨线程唤醒，把积压的闭包全部执行掉
			if fd == p.wakeFd {
				p.drainWake(handler)
				continue
			}

			// 定时器到期
			if token, ok := p.isTimer[fd]; ok {
				p.expireTimer(fd, token)
				handler.OnTimeout(p, token)
				continue
			}

			// 普通的IO就绪事件
			handler.OnReady(p, common.Token(event.Pad), toEventSet(event.Events))
		}
	}
}

//drainWake 清空eventfd的计数，再按投递顺序执行闭包
func (p *Poller) drainWake(handler iface.IEventHandler) {

	var buf [8]byte
	for {
		if _, err := unix.Read(p.wakeFd, buf[:]); err != nil {
			break
		}
	}

	for {
		p.mu.Lock()
		if p.pending.Length() == 0 {
			p.mu.Unlock()
			return
		}
		msg := p.pending.Remove().(iface.IClosure)
		p.mu.Unlock()

		handler.OnNotify(p, msg)
	}
}

//expireTimer 定时器是一次性的，到期后直接回收timerfd
func (p *Poller) expireTimer(tfd int, token common.Token) {
	var buf [8]byte
	_, _ = unix.Read(tfd, buf[:])

	delete(p.timerFds, token)
	delete(p.isTimer, tfd)
	_ = unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, tfd, nil)
	_ = unix.Close(tfd)
}

//Close 关闭epoll和eventfd，回收所有timerfd
func (p *Poller) Close() error {

	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	for token, tfd := range p.timerFds {
		delete(p.timerFds, token)
		delete(p.isTimer, tfd)
		_ = unix.Close(tfd)
	}

	_ = unix.Close(p.wakeFd)
	return unix.Close(p.epfd)
}

//toEventSet epoll的事件位转换成EventSet
func toEventSet(events uint32) common.EventSet {
	var es common.EventSet
	if events&(unix.EPOLLIN|unix.EPOLLPRI) != 0 {
		es |= common.EventReadable
	}
	if events&unix.EPOLLOUT != 0 {
		es |= common.EventWritable
	}
	if events&unix.EPOLLERR != 0 {
		es |= common.EventError
	}
	if events&unix.EPOLLHUP != 0 {
		es |= common.EventHup
	}
	return es
}
