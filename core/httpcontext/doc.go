// Package httpcontext provides the per-request Context handed to handlers.
//
// A Context exposes normalized request facts (path, method, headers, client
// IP, cookies, query and route parameters, accepted encodings), buffered body
// readers, a first-match-wins route matcher, and response writers guarded so
// that at most one response is written per request.
//
//	func handle(ctx *httpcontext.Context) error {
//		if err := ctx.Route("GET /users/:id", func(p map[string]string) error {
//			return ctx.APIResponse(map[string]string{"id": p["id"]})
//		}); err != nil {
//			return err
//		}
//		return ctx.APIRoute("POST /users", func(map[string]string) error {
//			data, err := ctx.ReadData()
//			if err != nil {
//				return err
//			}
//			return ctx.APIResponseSuccess(httpcontext.CodeCreated, data, nil)
//		})
//	}
//
// API responses use a uniform JSON envelope:
//
//	{"success": true, "code": "OK", "data": {...}}
//	{"success": false, "code": "INVALID_INPUT", "message": "..."}
package httpcontext
