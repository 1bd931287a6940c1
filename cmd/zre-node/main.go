// Package main 提供 zre-node 命令行入口
//
// 启动一个 ZRE 节点，加入指定群组，把收到的每个事件打印为一行。
//
// 使用方法：
//
//	go run ./cmd/zre-node -name alice -group room
//	go run ./cmd/zre-node -config node.json -metrics-addr :9100
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-zre"
	"github.com/dep2p/go-zre/config"
	"github.com/dep2p/go-zre/internal/core/metrics"
	"github.com/dep2p/go-zre/pkg/lib/log"
)

var logger = log.Logger("zre/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
//
// 命令行参数覆盖环境变量，环境变量覆盖配置文件。
// ═══════════════════════════════════════════════════════════════════════════
var (
	name        = flag.String("name", "", "节点名称（默认 UUID 前 6 位）")
	groups      = flag.String("group", "", "加入的群组（逗号分隔）")
	port        = flag.Int("port", config.DefaultBeaconPort, "UDP 信标端口（0 = 禁用信标）")
	interval    = flag.Duration("interval", time.Second, "信标广播间隔")
	iface       = flag.String("iface", "", "信标网卡（默认所有网卡）")
	configFile  = flag.String("config", "", "配置文件路径")
	verbose     = flag.Bool("verbose", false, "输出协议跟踪日志")
	metricsAddr = flag.String("metrics-addr", "", "Prometheus /metrics 监听地址")
	logLevel    = flag.String("log-level", "", "日志级别 (debug/info/warn/error)")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(zre.VersionInfo())
		return nil
	}

	cfg, err := buildConfig()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []zre.Option{zre.WithConfig(cfg)}

	// ═══════════════════════════════════════════════════════════════════
	// 指标
	// ═══════════════════════════════════════════════════════════════════
	var reg *prometheus.Registry
	if cfg.Metrics.ListenAddr != "" {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, zre.WithRegisterer(reg))
	}

	logger.Info("启动 zre 节点", "version", zre.Version, "commit", zre.GitCommit)

	node, err := zre.Start(ctx, opts...)
	if err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}

	uuid, _ := node.UUID(ctx)
	nodeName, _ := node.Name(ctx)
	fmt.Printf("节点已启动: %s (%s)，按 Ctrl+C 退出\n", nodeName, uuid)

	// ═══════════════════════════════════════════════════════════════════
	// 事件输出与指标服务，任一退出即关闭节点
	// ═══════════════════════════════════════════════════════════════════
	g, gctx := errgroup.WithContext(ctx)
	if reg != nil {
		srv := newMetricsServer(cfg.Metrics.ListenAddr, reg)
		g.Go(func() error {
			logger.Info("指标服务已启动", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("指标服务退出: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}
	g.Go(func() error {
		printEvents(gctx, node)
		stop()
		return nil
	})
	runErr := g.Wait()

	fmt.Println("\n正在关闭节点...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := node.Stop(shutdownCtx); err != nil && !errors.Is(err, zre.ErrNotStarted) {
		logger.Warn("停止节点失败", "err", err)
	}
	return multierr.Append(runErr, node.Close(shutdownCtx))
}

// printEvents 打印事件直到收到退出信号
func printEvents(ctx context.Context, node *zre.Node) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-node.Events():
			if !ok {
				return
			}
			fmt.Println(formatEvent(ev))
		}
	}
}

// formatEvent 返回一行事件文本
func formatEvent(ev zre.Event) string {
	line := ev.String()
	if ev.Type == zre.EventEnter && len(ev.Headers) > 0 {
		line += fmt.Sprintf(" headers=%v", ev.Headers)
	}
	return fmt.Sprintf("%s %s", time.Now().Format("15:04:05"), line)
}

// newMetricsServer 创建暴露 /metrics 的 HTTP 服务
func newMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// isFlagSet 检查命令行参数是否被显式设置
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
