package task

import (
	"context"
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/internal/app"
	"github.com/NguyenHai-LETI/Sync-Note/internal/domain"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// EntityStatsTask 定期刷新实体数量与并发组件状态的 Prometheus 指标，只读不写
type EntityStatsTask struct {
	app      *app.App
	logger   *zap.Logger
	interval time.Duration

	entities   *prometheus.GaugeVec
	users      prometheus.Gauge
	queue      *prometheus.GaugeVec
	workerPool *prometheus.GaugeVec
}

// Name 返回任务名称
func (t *EntityStatsTask) Name() string {
	return "EntityStats"
}

// LoopInterval 返回执行间隔
func (t *EntityStatsTask) LoopInterval() time.Duration {
	return t.interval
}

// IsStartupRun 是否立即执行一次
func (t *EntityStatsTask) IsStartupRun() bool {
	return true
}

// Run 采集一次统计
func (t *EntityStatsTask) Run(ctx context.Context) error {
	counters := []struct {
		entity string
		count  func(context.Context) (domain.EntityCount, error)
	}{
		{"category", t.app.CategoryRepo.Count},
		{"note", t.app.NoteRepo.Count},
		{"note_item", t.app.NoteItemRepo.Count},
	}

	for _, c := range counters {
		n, err := c.count(ctx)
		if err != nil {
			return errors.Wrapf(err, "count %s", c.entity)
		}
		t.entities.WithLabelValues(c.entity, "live").Set(float64(n.Live))
		t.entities.WithLabelValues(c.entity, "tombstoned").Set(float64(n.Tombstoned))
	}

	users, err := t.app.UserRepo.Count(ctx)
	if err != nil {
		return errors.Wrap(err, "count user")
	}
	t.users.Set(float64(users))

	qs := t.app.WriteQueueManager().Stats()
	t.queue.WithLabelValues("lanes").Set(float64(qs.Lanes))
	t.queue.WithLabelValues("pending").Set(float64(qs.Pending))

	pm := t.app.WorkerPool().GetMetrics()
	t.workerPool.WithLabelValues("active").Set(float64(pm.Active))
	t.workerPool.WithLabelValues("queued").Set(float64(pm.Queued))
	t.workerPool.WithLabelValues("completed").Set(float64(pm.Completed))
	t.workerPool.WithLabelValues("rejected").Set(float64(pm.Rejected))

	t.logger.Debug("task log",
		zap.String("task", t.Name()),
		zap.Int64("users", users),
		zap.Int("writeQueuePending", qs.Pending))
	return nil
}

// NewEntityStatsTask 创建统计任务，指标注册在容器自己的 Registry 上
func NewEntityStatsTask(appContainer *app.App) (Task, error) {
	ns := app.ServiceName
	t := &EntityStatsTask{
		app:      appContainer,
		logger:   appContainer.Logger(),
		interval: appContainer.Config().GetStatsInterval(),
		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "entities",
			Help:      "Number of stored rows per entity, split into live and tombstoned.",
		}, []string{"entity", "state"}),
		users: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "users",
			Help:      "Number of registered users.",
		}),
		queue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "write_queue",
			Help:      "Per-user write queue lanes and pending jobs.",
		}, []string{"kind"}),
		workerPool: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "worker_pool",
			Help:      "Sync worker pool job counters.",
		}, []string{"kind"}),
	}

	var err error
	if t.entities, err = registerGaugeVec(appContainer.Registry, t.entities); err != nil {
		return nil, err
	}
	if t.queue, err = registerGaugeVec(appContainer.Registry, t.queue); err != nil {
		return nil, err
	}
	if t.workerPool, err = registerGaugeVec(appContainer.Registry, t.workerPool); err != nil {
		return nil, err
	}
	if err := appContainer.Registry.Register(t.users); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, errors.Wrap(err, "register users gauge")
		}
		t.users = are.ExistingCollector.(prometheus.Gauge)
	}

	return t, nil
}

// registerGaugeVec 注册指标，已注册时复用已有实例
func registerGaugeVec(reg prometheus.Registerer, g *prometheus.GaugeVec) (*prometheus.GaugeVec, error) {
	if err := reg.Register(g); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, errors.Wrap(err, "register gauge")
		}
		return are.ExistingCollector.(*prometheus.GaugeVec), nil
	}
	return g, nil
}

func init() {
	RegisterWithApp(NewEntityStatsTask)
}
