package inbound

import "github.com/naghmatea/site/internal/pkg/router"

const pathSendCustomTea = "/api/send-custom-tea"

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST(pathSendCustomTea, end.SendCustomTea)
	r.GET("/health", end.Health)
}
