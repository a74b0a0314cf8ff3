package importer

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/empresatop10/employee-manager/internal/core/domain"
	"github.com/empresatop10/employee-manager/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// row is one data row waiting to be stored.
type row struct {
	seq   int
	sheet string
	line  int
	name  string
	email string
}

type outcome struct {
	client  *domain.Client
	created bool
	err     error
}

// dispatcher routes rows to a fixed set of workers using consistent hashing on
// the e-mail, so rows sharing an address are stored in file order.
type dispatcher struct {
	workers []chan row
	clients ports.ClientRepository
	log     zerolog.Logger
	results []outcome
	wg      sync.WaitGroup

	cancel  context.CancelFunc
	errOnce sync.Once
	err     error
	errRow  row
}

func newDispatcher(numWorkers, rows int, clients ports.ClientRepository, log zerolog.Logger) *dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &dispatcher{
		workers: make([]chan row, numWorkers),
		clients: clients,
		log:     log,
		results: make([]outcome, rows),
	}
	for i := range d.workers {
		d.workers[i] = make(chan row, channelBuffer)
	}
	return d
}

// start launches the workers. The first store failure cancels the rows that
// have not been stored yet.
func (d *dispatcher) start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

func (d *dispatcher) enqueue(r row) {
	d.workers[d.shardIndex(r.email)] <- r
}

// wait closes the queues and blocks until every worker has drained its own.
func (d *dispatcher) wait() []outcome {
	for _, ch := range d.workers {
		close(ch)
	}
	d.wg.Wait()
	d.cancel()
	return d.results
}

// shardIndex maps an e-mail deterministically to a worker index.
func (d *dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(domain.NormalizeEmail(email)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *dispatcher) runWorker(ctx context.Context, id int, ch <-chan row) {
	defer d.wg.Done()
	for r := range ch {
		if err := ctx.Err(); err != nil {
			d.results[r.seq] = outcome{err: err}
			continue
		}
		c, created, err := d.clients.GetOrCreate(ctx, r.name, r.email)
		d.results[r.seq] = outcome{client: c, created: created, err: err}
		if err != nil && !isConflict(err) {
			d.fail(r, err)
			d.log.Error().Err(err).
				Str("sheet", r.sheet).
				Int("row", r.line).
				Int("worker_id", id).
				Msg("client import failed")
		}
	}
}

func (d *dispatcher) fail(r row, err error) {
	d.errOnce.Do(func() {
		d.err, d.errRow = err, r
		d.cancel()
	})
}
