// Package static serves a public directory on top of httpcontext.
//
// FileServer.Handle has the shape of a server.HandlerFunc, so it can be the
// whole application:
//
//	files, err := static.New(static.WithPublicDir("dist"))
//	if err != nil {
//		return err
//	}
//	srv := server.New(server.Options{Port: 8080}, files.Handle)
//
// or run after application routes through WithListener:
//
//	files, _ := static.New(static.WithListener(func(c *httpcontext.Context) error {
//		return c.APIRoute("GET /api/me", me)
//	}))
//
// Request handling:
//
//   - A path whose last segment starts with "." or that contains ".." is
//     rejected with 403 before any file system access, and logged at warn
//     level with the client address.
//   - A request with a Range header is streamed. "bytes=<start>-[<end>]" yields
//     206 with only that window read from disk; an empty Range value streams
//     the whole file. Malformed, negative or inverted ranges yield 416
//     "Invalid Range"; ranges past the end yield 416 with
//     "Content-Range: bytes */<size>".
//   - Any other GET is answered with the whole file. When no file matches, the
//     index document (index.html) is served as text/html so client-side
//     routers can take over; WithIndexRewrite can alter it first. If the index
//     is missing too, the response is 404.
//
// Content types come from a fixed, case-sensitive extension table; see
// ContentTypeFromPath.
package static
