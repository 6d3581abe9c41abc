package windows

import "github.com/yusufpapurcu/wmi"

// WMIQuerier runs queries against the local WMI service.
type WMIQuerier struct{}

func (WMIQuerier) Query(namespace, query string, dst any) error {
	if namespace == "" {
		return wmi.Query(query, dst)
	}
	return wmi.QueryNamespace(query, dst, namespace)
}
