// Package event 提供同步、有序的进程内事件分发
//
// 订阅者按注册顺序收到通知；分发在状态变化发生的时刻同步完成，
// 不做任何缓冲或跨进程投递。
package event

// EventType 事件类型
type EventType string

// Event 事件
type Event struct {
	Type EventType
	Data interface{}
}

// Listener 订阅者接口
type Listener interface {
	OnEvent(e Event)
}

// ListenerFunc 函数适配器
type ListenerFunc func(e Event)

// OnEvent 实现 Listener
func (f ListenerFunc) OnEvent(e Event) { f(e) }

// Subscription 订阅句柄，用于取消订阅
type Subscription uint64

type subscriber struct {
	id        Subscription
	eventType EventType // 空字符串表示订阅全部事件
	listener  Listener
}

// Dispatcher 事件分发器
// 非并发安全：只能在调度器的控制循环中使用
type Dispatcher struct {
	nextID      Subscription
	subscribers []subscriber
}

// NewDispatcher 创建新的分发器
func NewDispatcher() *Dispatcher {
	return &Dispatcher{nextID: 1}
}

// Subscribe 订阅指定类型的事件
func (d *Dispatcher) Subscribe(eventType EventType, listener Listener) Subscription {
	id := d.nextID
	d.nextID++
	d.subscribers = append(d.subscribers, subscriber{id: id, eventType: eventType, listener: listener})
	return id
}

// SubscribeFunc 以函数形式订阅
func (d *Dispatcher) SubscribeFunc(eventType EventType, fn func(e Event)) Subscription {
	return d.Subscribe(eventType, ListenerFunc(fn))
}

// SubscribeAll 订阅全部事件
func (d *Dispatcher) SubscribeAll(listener Listener) Subscription {
	return d.Subscribe("", listener)
}

// Unsubscribe 取消订阅，返回是否找到该订阅
func (d *Dispatcher) Unsubscribe(id Subscription) bool {
	for i, s := range d.subscribers {
		if s.id == id {
			d.subscribers = append(d.subscribers[:i:i], d.subscribers[i+1:]...)
			return true
		}
	}
	return false
}

// Len 返回当前订阅数
func (d *Dispatcher) Len() int {
	return len(d.subscribers)
}

// Dispatch 按注册顺序通知所有匹配的订阅者
// 分发期间新增或取消的订阅从下一次分发开始生效
func (d *Dispatcher) Dispatch(e Event) {
	snapshot := d.subscribers
	for _, s := range snapshot {
		if s.eventType == "" || s.eventType == e.Type {
			s.listener.OnEvent(e)
		}
	}
}
