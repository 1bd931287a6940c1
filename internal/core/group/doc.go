// Package group 维护 ZRE 群组成员
//
// 引擎维护两份群组表：本节点加入的群组，以及对端报告加入的群组。
// 只有后者持有成员；SHOUT 按成员快照扇出，每个成员收到独立副本。
package group
