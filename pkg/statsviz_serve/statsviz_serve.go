package statsviz_serve

import (
	"net/http"

	"github.com/arl/statsviz"
)

// Serve 运行时诊断页面 阻塞运行
func Serve(addr string) error {
	mux := http.NewServeMux()
	err := statsviz.Register(mux)
	if err != nil {
		return err
	}
	return http.ListenAndServe(addr, mux)
}
