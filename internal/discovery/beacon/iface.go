package beacon

import (
	"net"
)

// ifaceInfo 网卡快照
type ifaceInfo struct {
	Name  string
	Flags net.Flags
	Addrs []*net.IPNet
}

// route 信标发送路由
type route struct {
	// hostname 对外通告的 IP
	hostname string

	// broadcast 发送目标
	broadcast net.IP

	// device 显式指定网卡时的网卡名，套接字绑定到该网卡
	device string
}

// systemInterfaces 读取本机 IPv4 网卡
func systemInterfaces() ([]ifaceInfo, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	out := make([]ifaceInfo, 0, len(ifaces))
	for _, ifc := range ifaces {
		addrs, err := ifc.Addrs()
		if err != nil {
			continue
		}
		info := ifaceInfo{Name: ifc.Name, Flags: ifc.Flags}
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				info.Addrs = append(info.Addrs, ipnet)
			}
		}
		if len(info.Addrs) > 0 {
			out = append(out, info)
		}
	}
	return out, nil
}

// resolveRoute 按网卡配置选择通告地址和广播地址
func resolveRoute(name, override string) (route, error) {
	ifaces, err := systemInterfaces()
	if err != nil {
		return route{}, NewBeaconError("interfaces", err, "list interfaces failed")
	}
	r, err := selectRoute(ifaces, name)
	if err != nil {
		return route{}, err
	}
	if override != "" {
		r.broadcast = net.ParseIP(override).To4()
	}
	return r, nil
}

// selectRoute 从网卡列表中选择路由
//
//   - "*": 通告第一个可用地址，发往 255.255.255.255
//   - "": 第一个启用广播的非回环网卡，没有则退回回环网卡
//   - 其他: 按网卡名或网卡 IP 匹配，并记录网卡名用于绑定
func selectRoute(ifaces []ifaceInfo, name string) (route, error) {
	up := make([]ifaceInfo, 0, len(ifaces))
	for _, ifc := range ifaces {
		if ifc.Flags&net.FlagUp != 0 && len(ifc.Addrs) > 0 {
			up = append(up, ifc)
		}
	}

	switch name {
	case AllInterfaces:
		host := "127.0.0.1"
		if ifc, ok := firstUsable(up); ok {
			host = ifc.Addrs[0].IP.To4().String()
		}
		return route{hostname: host, broadcast: net.IPv4bcast}, nil

	case "":
		if ifc, ok := firstUsable(up); ok {
			return routeFor(ifc.Addrs[0]), nil
		}
		for _, ifc := range up {
			if ifc.Flags&net.FlagLoopback != 0 {
				return routeFor(ifc.Addrs[0]), nil
			}
		}
		return route{}, ErrNoInterface

	default:
		for _, ifc := range up {
			if ifc.Name == name {
				r := routeFor(ifc.Addrs[0])
				r.device = ifc.Name
				return r, nil
			}
			for _, a := range ifc.Addrs {
				if a.IP.String() == name {
					r := routeFor(a)
					r.device = ifc.Name
					return r, nil
				}
			}
		}
		return route{}, ErrNoInterface
	}
}

// firstUsable 第一个非回环、支持广播的网卡
func firstUsable(ifaces []ifaceInfo) (ifaceInfo, bool) {
	for _, ifc := range ifaces {
		if ifc.Flags&net.FlagLoopback == 0 && ifc.Flags&net.FlagBroadcast != 0 {
			return ifc, true
		}
	}
	return ifaceInfo{}, false
}

// routeFor 由网卡地址推导定向广播地址
func routeFor(ipnet *net.IPNet) route {
	ip := ipnet.IP.To4()
	mask := ipnet.Mask
	if len(mask) == net.IPv6len {
		mask = mask[12:]
	}
	bcast := make(net.IP, net.IPv4len)
	for i := range bcast {
		bcast[i] = ip[i] | ^mask[i]
	}
	return route{hostname: ip.String(), broadcast: bcast}
}
