package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dep2p/go-zre/config"
)

// 环境变量（均使用 ZRE_ 前缀）
const (
	envPrefix    = "ZRE_"
	envName      = "NAME"
	envGroups    = "GROUPS"
	envPort      = "BEACON_PORT"
	envInterface = "INTERFACE"
	envVerbose   = "VERBOSE"
	envLogLevel  = "LOG_LEVEL"
	envMetrics   = "METRICS_ADDR"
)

// ============================================================================
//                              配置加载（CLI 专用）
// ============================================================================

// buildConfig 合并配置文件、环境变量和命令行参数
func buildConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	if *configFile != "" {
		var err error
		cfg, err = config.LoadFile(*configFile)
		if err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg, os.Getenv)
	applyFlagOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides 应用环境变量覆盖配置
//
// 支持的环境变量：
//   - ZRE_NAME: 节点名称
//   - ZRE_GROUPS: 群组（逗号分隔）
//   - ZRE_BEACON_PORT: 信标端口
//   - ZRE_INTERFACE: 信标网卡
//   - ZRE_VERBOSE: 协议跟踪日志
//   - ZRE_LOG_LEVEL: 日志级别
//   - ZRE_METRICS_ADDR: /metrics 监听地址
func applyEnvOverrides(cfg *config.Config, getenv func(string) string) {
	if v := getenv(envPrefix + envName); v != "" {
		cfg.Node.Name = v
	}
	if v := getenv(envPrefix + envGroups); v != "" {
		cfg.Node.Groups = splitAndTrim(v, ",")
	}
	if v := getenv(envPrefix + envPort); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Beacon.Port = p
		}
	}
	if v := getenv(envPrefix + envInterface); v != "" {
		cfg.Beacon.Interface = v
	}
	if v := getenv(envPrefix + envVerbose); v != "" {
		cfg.Log.Verbose = parseBool(v)
	}
	if v := getenv(envPrefix + envLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv(envPrefix + envMetrics); v != "" {
		cfg.Metrics.ListenAddr = v
	}
}

// applyFlagOverrides 应用显式设置的命令行参数
func applyFlagOverrides(cfg *config.Config) {
	if isFlagSet("name") {
		cfg.Node.Name = *name
	}
	if isFlagSet("group") {
		cfg.Node.Groups = splitAndTrim(*groups, ",")
	}
	if isFlagSet("port") {
		cfg.Beacon.Port = *port
	}
	if isFlagSet("interval") {
		cfg.Beacon.Interval = config.Duration(*interval)
	}
	if isFlagSet("iface") {
		cfg.Beacon.Interface = *iface
	}
	if isFlagSet("verbose") {
		cfg.Log.Verbose = *verbose
	}
	if isFlagSet("log-level") {
		cfg.Log.Level = *logLevel
	}
	if isFlagSet("metrics-addr") {
		cfg.Metrics.ListenAddr = *metricsAddr
	}
	if cfg.Metrics.ListenAddr != "" {
		cfg.Metrics.Enabled = true
	}
	if cfg.Beacon.Interval <= 0 {
		cfg.Beacon.Interval = config.Duration(time.Second)
	}
}

// ============================================================================
//                              辅助函数
// ============================================================================

// parseBool 解析布尔值字符串
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// splitAndTrim 分割字符串并去除空白
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
