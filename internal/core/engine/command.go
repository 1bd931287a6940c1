package engine

// Op 控制命令名
type Op string

// 控制命令
const (
	OpStart         Op = "START"
	OpStop          Op = "STOP"
	OpSetName       Op = "SET NAME"
	OpName          Op = "NAME"
	OpSetUUID       Op = "SET UUID"
	OpUUID          Op = "UUID"
	OpSetInterval   Op = "SET INTERVAL"
	OpSetVerbose    Op = "SET VERBOSE"
	OpSetHeader     Op = "SET HEADER"
	OpSetPort       Op = "SET PORT"
	OpSetInterface  Op = "SET INTERFACE"
	OpWhisper       Op = "WHISPER"
	OpShout         Op = "SHOUT"
	OpJoin          Op = "JOIN"
	OpLeave         Op = "LEAVE"
	OpPeers         Op = "PEERS"
	OpPeerEndpoint  Op = "PEER ENDPOINT"
	OpPeerHeader    Op = "PEER HEADER"
	OpPeerName      Op = "PEER NAME"
	OpPeerGroups    Op = "PEER GROUPS"
	OpOwnGroups     Op = "OWN GROUPS"
	OpSetEndpoint   Op = "SET ENDPOINT"
	OpGossipBind    Op = "GOSSIP BIND"
	OpGossipConnect Op = "GOSSIP CONNECT"
	OpDump          Op = "DUMP"

	// OpTerm 终止引擎
	OpTerm Op = "$TERM"
)

// Command 控制命令
//
// Args 按命令约定依次排列（例如 SET HEADER 为 key, value）；
// Content 为 WHISPER / SHOUT 的负载帧。
type Command struct {
	Op      Op
	Args    []string
	Content [][]byte

	reply chan Reply
}

// Reply 命令应答
type Reply struct {
	Values []string
	Err    error
}

// NewCommand 创建命令
func NewCommand(op Op, args ...string) Command {
	return Command{Op: op, Args: args}
}

// WithContent 附加负载帧
func (c Command) WithContent(content ...[]byte) Command {
	c.Content = content
	return c
}

// arg 返回第 i 个参数
func (c Command) arg(i int) (string, bool) {
	if i >= len(c.Args) {
		return "", false
	}
	return c.Args[i], true
}

func (c Command) respond(values []string, err error) {
	if c.reply == nil {
		return
	}
	c.reply <- Reply{Values: values, Err: err}
}
