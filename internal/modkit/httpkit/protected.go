package httpkit

import (
	"gridwatch/internal/platform/net/middleware"
)

// Protected groups routes behind a secret port
// a nil port leaves the group open, which is how optional admin tokens switch off
func Protected(r Router, p middleware.SecretPort, fn func(Router)) {
	r.Group(func(gr Router) {
		if p != nil {
			gr.Use(Auth(p))
		}
		fn(gr)
	})
}
