package interfaces

import "errors"

// 传输层公共错误
var (
	// ErrMailboxFull 发件箱队列已满，消息被丢弃
	ErrMailboxFull = errors.New("transport: mailbox queue full")

	// ErrMailboxClosed 发件箱已关闭
	ErrMailboxClosed = errors.New("transport: mailbox closed")

	// ErrInvalidEndpoint 无法解析的 endpoint
	ErrInvalidEndpoint = errors.New("transport: invalid endpoint")
)

// Transport 定义传输层接口
//
// 两种套接字语义：节点绑定一个收件箱接收所有对端消息（ROUTER），
// 对每个对端拨出一个发件箱（DEALER），以路由标识表明自己的身份。
type Transport interface {
	// Bind 在 endpoint 上打开收件箱
	//
	// endpoint 形如 "tcp://host:port"，port 为 0 表示随机端口。
	Bind(endpoint string) (Inbox, error)

	// Dial 以 identity 作为路由标识连接远端 endpoint
	//
	// 不阻塞等待连接建立；仅在 endpoint 非法时立即失败。
	Dial(identity []byte, endpoint string) (Mailbox, error)
}

// Inbox 收件箱
type Inbox interface {
	// Endpoint 返回实际绑定的 endpoint（端口已解析）
	Endpoint() string

	// Recv 返回消息通道
	//
	// 每条消息的第 0 帧为发送方路由标识，其余为协议帧。
	// 收件箱关闭后通道被关闭。
	Recv() <-chan [][]byte

	// Close 关闭收件箱
	Close() error
}

// Mailbox 发件箱
type Mailbox interface {
	// Send 发送一条多帧消息
	//
	// 尽力而为：排队失败返回 ErrMailboxFull，不重试。
	Send(frames [][]byte) error

	// Close 关闭发件箱，可重复调用
	Close() error
}
