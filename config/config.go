package config

import (
	"net"
	"runtime"
	"strconv"
	"time"

	"github.com/indigo-web/hostd/http/mime"
)

type (
	NET struct {
		// Address is the interface the server listens on.
		Address string
		// Port is the TCP port the server listens on.
		Port uint16
		// Backlog is the size of the accept queue of the listening socket.
		Backlog int
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int
		// ReadTimeout controls the maximal lifetime of IDLE connections. If no data was
		// received in this period of time, it'll be closed.
		ReadTimeout time.Duration
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop. Defaults to 5 seconds.
		AcceptLoopInterruptPeriod time.Duration
		// MaxConnections limits the number of simultaneously served connections. Connections
		// exceeding the limit are answered with 503 Service Unavailable and closed. Zero
		// disables the limit.
		MaxConnections int `test:"nullable"`
	}

	Headers struct {
		// MaxLineSize limits the length of the request line and of every single header line.
		MaxLineSize int
		// MaxLines is the maximal number of header lines in a single request.
		MaxLines int
	}

	Documents struct {
		// Root is the document root directory.
		Root string
		// TreeURI is the path prefix serving directory tree views.
		TreeURI string
		// TreeEnabled enables directory tree views.
		TreeEnabled bool
		// Realm is announced in the WWW-Authenticate challenge of protected documents.
		Realm string
		// ErrorTemplate and TreeTemplate are paths relative to the Root.
		ErrorTemplate string
		TreeTemplate  string
	}

	SSI struct {
		// MaxDepth caps the nesting of #include directives.
		MaxDepth int
	}

	Exec struct {
		// Interpreter runs dynamic (.php) documents. The absolute path of the document is
		// passed as its only argument.
		Interpreter string
		// Shell runs #exec directives. The command is appended as the last argument.
		Shell []string
		// Timeout bounds every external process. Zero waits for the process forever.
		Timeout time.Duration `test:"nullable"`
	}
)

// Config holds every setting of the server. It's built once at startup and must not be
// modified after the server has started, so it's safe to share it among connections.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	NET       NET
	Headers   Headers
	Documents Documents
	SSI       SSI
	Exec      Exec
	// Hosts maps lowercase Host header values onto subpaths of the document root.
	Hosts map[string]string
	// ContentTypes maps file extensions onto their MIMEs.
	ContentTypes mime.Table
}

// Default returns default config. Those are initially well-balanced, however maximal defaults
// are pretty permitting.
func Default() *Config {
	return &Config{
		NET: NET{
			Address:                   "0.0.0.0",
			Port:                      8080,
			Backlog:                   128,
			ReadBufferSize:            4 * 1024,
			ReadTimeout:               90 * time.Second,
			AcceptLoopInterruptPeriod: 5 * time.Second,
		},
		Headers: Headers{
			MaxLineSize: 8 * 1024,
			MaxLines:    100,
		},
		Documents: Documents{
			Root:          "documents",
			TreeURI:       "/tree",
			TreeEnabled:   true,
			Realm:         "Access to the staging site",
			ErrorTemplate: ".server/error/html/index.html",
			TreeTemplate:  ".server/tree/html/index.html",
		},
		SSI: SSI{
			MaxDepth: 16,
		},
		Exec: Exec{
			Interpreter: "php",
			Shell:       DefaultShell(),
		},
		Hosts:        make(map[string]string),
		ContentTypes: mime.Defaults(),
	}
}

// DefaultShell returns the shell invocation of the host platform.
func DefaultShell() []string {
	if runtime.GOOS == "windows" {
		return []string{"cmd", "/c"}
	}

	return []string{"/bin/bash", "-c"}
}

// Addr returns the address to bind the listener on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.NET.Address, strconv.Itoa(int(c.NET.Port)))
}
