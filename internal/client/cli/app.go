package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/scenevault/internal/client/client"
	"github.com/dmitrijs2005/scenevault/internal/client/config"
	"github.com/dmitrijs2005/scenevault/internal/client/repositories/cache"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// maxSceneFile matches the server's default body limit.
const maxSceneFile = 50 << 20

// newClient is a test seam for the transport constructor.
var newClient = func(c *config.Config, ownerID string) (client.Client, error) {
	if c.Transport == config.TransportGRPC {
		cl, err := client.NewGRPCClient(c.GRPCEndpointAddr, ownerID)
		if err != nil {
			return nil, err
		}
		return cl, nil
	}
	return client.NewHTTPClient(c.ServerEndpointAddr, ownerID, &http.Client{}, c.SceneCacheSize), nil
}

type App struct {
	config  *config.Config
	client  client.Client
	ownerID string

	// cache is nil when the offline listing cache is disabled.
	cache      cache.Repository
	closeCache func() error

	in  *bufio.Reader
	out io.Writer

	// passphrase reads the encryption passphrase; replaced in tests.
	passphrase func() ([]byte, error)

	mu   sync.Mutex
	mode Mode
}

// NewApp builds the CLI on top of stdin/stdout. When no owner id is
// configured the user is asked for one.
func NewApp(c *config.Config) (*App, error) {
	in := bufio.NewReader(os.Stdin)

	ownerID := c.OwnerID
	for ownerID == "" {
		s, err := GetSimpleText(in, "Owner id:", os.Stdout)
		if err != nil {
			return nil, fmt.Errorf("read owner id: %w", err)
		}
		ownerID = s
	}

	cl, err := newClient(c, ownerID)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	a := newApp(c, cl, ownerID, in, os.Stdout)

	if c.CachePath != "" {
		db, err := cache.Open(context.Background(), c.CachePath)
		if err != nil {
			cl.Close()
			return nil, err
		}
		a.cache = cache.NewSQLiteRepository(db)
		a.closeCache = db.Close
	}

	return a, nil
}

func newApp(c *config.Config, cl client.Client, ownerID string, in *bufio.Reader, out io.Writer) *App {
	a := &App{config: c, client: cl, ownerID: ownerID, in: in, out: out}
	a.passphrase = func() ([]byte, error) { return GetPassphrase(a.out) }
	return a
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		fmt.Fprintf(a.out, "\nSwitched to %s mode\n", mode)
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.mode == "" {
		return a.ownerID
	}
	return fmt.Sprintf("%s %s", a.ownerID, a.mode)
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.client.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// mode shown in the prompt. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// requestContext bounds a single command by the configured request timeout.
func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.client.Close()
	if a.closeCache != nil {
		defer a.closeCache()
	}

	fmt.Fprintln(a.out, "Welcome to scenectl (type 'help' for commands)")

	a.checkOnline(ctx)
	if a.config.OnlineCheckInterval > 0 {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.in), a.out)
	return nil
}
