package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/gouveiaesilva/dashmilo-api/infrastructure/repository"
	"github.com/gouveiaesilva/dashmilo-api/internal/config"
	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/reporting"
	"github.com/sirupsen/logrus"
)

// ErrTickRunning indica que já existe uma avaliação de agendas em andamento
var ErrTickRunning = errors.New("report dispatch tick already running")

// ReportDispatchConfig representa a configuração do agendador de relatórios
type ReportDispatchConfig struct {
	CronSchedule       string
	MaxConcurrentJobs  int
	IdempotencyEnabled bool
	Enabled            bool
}

// TickReport resume uma avaliação das agendas. Serve apenas para log e status.
type TickReport struct {
	StartedAt        time.Time `json:"started_at"`
	CompletedAt      time.Time `json:"completed_at"`
	Weekday          string    `json:"weekday"`
	Hour             string    `json:"hour"`
	Clients          int       `json:"clients"`
	Evaluated        int       `json:"evaluated"`
	Due              int       `json:"due"`
	Sent             int       `json:"sent"`
	Failed           int       `json:"failed"`
	NotConfigured    int       `json:"not_configured"`
	SkippedDuplicate int       `json:"skipped_duplicate"`
	InvalidSchedules int       `json:"invalid_schedules"`
}

type dispatchJob struct {
	client *domain.Client
	index  int
	entry  domain.ScheduleEntry
}

type jobOutcome int

const (
	outcomeSent jobOutcome = iota
	outcomeFailed
	outcomeNotConfigured
	outcomeDuplicate
)

// ReportDispatchService avalia as agendas de todos os clientes a cada hora e
// dispara os relatórios devidos
type ReportDispatchService struct {
	scheduler  *gocron.Scheduler
	config     ReportDispatchConfig
	clientRepo repository.ClientRepository
	ledger     repository.DispatchLedger
	reporter   reporting.Reporter
	now        func() time.Time

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastReport          *TickReport
}

// NewReportDispatchService cria o agendador de relatórios. O ledger pode ser
// nil, nesse caso não há proteção contra disparo duplicado.
func NewReportDispatchService(
	clientRepo repository.ClientRepository,
	ledger repository.DispatchLedger,
	reporter reporting.Reporter,
	appConfig *config.Config,
) *ReportDispatchService {
	dispatchConfig := ReportDispatchConfig{
		CronSchedule:       appConfig.ReportDispatch.CronSchedule,
		MaxConcurrentJobs:  appConfig.ReportDispatch.MaxConcurrentJobs,
		IdempotencyEnabled: appConfig.ReportDispatch.IdempotencyEnabled && ledger != nil,
		Enabled:            appConfig.ReportDispatch.Enabled,
	}

	if dispatchConfig.MaxConcurrentJobs <= 0 {
		dispatchConfig.MaxConcurrentJobs = 1
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":       dispatchConfig.CronSchedule,
		"max_concurrent_jobs": dispatchConfig.MaxConcurrentJobs,
		"idempotency_enabled": dispatchConfig.IdempotencyEnabled,
		"dispatch_enabled":    dispatchConfig.Enabled,
	}).Info("Configuração do agendador de relatórios carregada")

	return &ReportDispatchService{
		// As agendas dos clientes são sempre interpretadas no fuso civil
		scheduler:  gocron.NewScheduler(domain.CivilLocation),
		config:     dispatchConfig,
		clientRepo: clientRepo,
		ledger:     ledger,
		reporter:   reporter,
		now:        time.Now,
	}
}

// WithClock substitui o relógio lido a cada avaliação
func (s *ReportDispatchService) WithClock(now func() time.Time) *ReportDispatchService {
	s.now = now
	return s
}

// Start inicia o agendador
func (s *ReportDispatchService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Disparo agendado de relatórios desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de relatórios")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if _, err := s.Tick(ctx); err != nil && !errors.Is(err, ErrTickRunning) {
			logrus.WithError(err).Error("Erro na avaliação agendada de relatórios")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar disparo de relatórios: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de relatórios")
		s.scheduler.Stop()
	}()

	return nil
}

// Tick avalia todas as agendas contra o horário atual, lido do próprio relógio
// do serviço, e dispara as que estão devidas. Falhas de um cliente não
// interrompem os demais; o erro retornado só indica que a avaliação não pôde
// ser feita (outra em andamento ou falha ao listar clientes).
func (s *ReportDispatchService) Tick(ctx context.Context) (*TickReport, error) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Avaliação de relatórios já em andamento, ignorando")
		return nil, ErrTickRunning
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	now := s.now().In(domain.CivilLocation)
	report := &TickReport{
		StartedAt: now,
		Weekday:   domain.WeekdayToken(now.Weekday()),
		Hour:      domain.HourToken(now.Hour()),
	}

	s.syncMutex.Lock()
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	clients, err := s.clientRepo.ListClients(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar clientes para disparo de relatórios")
		return nil, fmt.Errorf("erro ao listar clientes: %w", err)
	}
	report.Clients = len(clients)

	jobs := s.dueJobs(clients, now, report)

	logrus.WithFields(logrus.Fields{
		"weekday":        report.Weekday,
		"hour":           report.Hour,
		"clients":        report.Clients,
		"evaluated":      report.Evaluated,
		"due":            report.Due,
		"not_configured": report.NotConfigured,
	}).Info("Agendas de relatórios avaliadas")

	s.runJobs(ctx, jobs, now, report)

	report.CompletedAt = s.now().In(domain.CivilLocation)

	logrus.WithFields(logrus.Fields{
		"due":               report.Due,
		"sent":              report.Sent,
		"failed":            report.Failed,
		"skipped_duplicate": report.SkippedDuplicate,
		"duration":          report.CompletedAt.Sub(report.StartedAt).String(),
	}).Info("Disparo de relatórios concluído")

	s.syncMutex.Lock()
	s.lastSyncCompletedAt = time.Now()
	s.lastReport = report
	s.syncMutex.Unlock()

	return report, nil
}

// dueJobs seleciona as agendas que devem disparar agora: habilitadas, com o
// dia da semana atual e com a mesma hora (os minutos são ignorados).
func (s *ReportDispatchService) dueJobs(clients []*domain.Client, now time.Time, report *TickReport) []dispatchJob {
	weekday := domain.WeekdayToken(now.Weekday())
	hour := now.Hour()

	jobs := make([]dispatchJob, 0)
	for _, client := range clients {
		if client == nil {
			continue
		}

		for idx, entry := range client.Schedules {
			report.Evaluated++

			if !entry.Enabled || !entry.RunsOn(weekday) {
				continue
			}

			entryHour, err := entry.Hour()
			if err != nil {
				report.InvalidSchedules++
				logrus.WithFields(logrus.Fields{
					"client_id":      client.ID,
					"client_name":    client.Name,
					"schedule_index": idx,
					"time":           entry.Time,
					"error":          err.Error(),
				}).Warn("Agenda com horário inválido, ignorando")
				continue
			}

			if entryHour != hour {
				continue
			}

			report.Due++

			if !client.HasWebhook() || !client.HasAdAccount() {
				report.NotConfigured++
				logrus.WithFields(logrus.Fields{
					"client_id":      client.ID,
					"client_name":    client.Name,
					"schedule_index": idx,
					"period":         entry.Period,
				}).Info("Cliente sem webhook ou conta de anúncios, agenda pulada")
				continue
			}

			jobs = append(jobs, dispatchJob{client: client, index: idx, entry: entry})
		}
	}

	return jobs
}

// runJobs executa os disparos em paralelo, limitado por MaxConcurrentJobs
func (s *ReportDispatchService) runJobs(ctx context.Context, jobs []dispatchJob, now time.Time, report *TickReport) {
	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, job := range jobs {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(job dispatchJob) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			outcome := s.runJob(ctx, job, now)

			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case outcomeSent:
				report.Sent++
			case outcomeDuplicate:
				report.SkippedDuplicate++
			case outcomeNotConfigured:
				report.NotConfigured++
			default:
				report.Failed++
			}
		}(job)
	}

	wg.Wait()
}

// runJob executa um disparo isolado. Nenhuma falha, nem panic, sai daqui.
func (s *ReportDispatchService) runJob(ctx context.Context, job dispatchJob, now time.Time) (outcome jobOutcome) {
	fields := logrus.Fields{
		"client_id":      job.client.ID,
		"client_name":    job.client.Name,
		"schedule_index": job.index,
		"period":         job.entry.Period,
	}

	key := domain.NewDispatchKey(job.client.ID, job.index, job.entry, now)
	claimed := false

	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(fields).WithField("panic", r).Error("Panic durante disparo de relatório")
			outcome = outcomeFailed
		}

		if outcome == outcomeFailed && claimed {
			s.release(ctx, key, fields)
		}
	}()

	if s.config.IdempotencyEnabled {
		ok, err := s.ledger.Claim(ctx, key)
		if err != nil {
			logrus.WithFields(fields).WithField("error", err.Error()).Error("Erro ao registrar disparo no ledger, relatório não enviado")
			return outcomeFailed
		}
		if !ok {
			logrus.WithFields(fields).WithField("dispatch_key", key.String()).Info("Relatório já disparado nesta hora, ignorando")
			return outcomeDuplicate
		}
		claimed = true
	}

	_, err := s.reporter.Dispatch(ctx, reporting.DispatchRequest{
		Client:      job.client,
		Period:      job.entry.Period,
		IncludeLink: job.entry.IncludeLink,
		Now:         now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			logrus.WithFields(fields).Info("Cliente não configurado para disparo, agenda pulada")
			if claimed {
				s.release(ctx, key, fields)
			}
			return outcomeNotConfigured
		}

		logrus.WithFields(fields).WithField("error", err.Error()).Error("Erro ao disparar relatório agendado")
		return outcomeFailed
	}

	if claimed {
		// Sem a confirmação a reserva volta a valer depois de repository.ClaimLease
		if err := s.ledger.Confirm(ctx, key); err != nil {
			logrus.WithFields(fields).WithField("error", err.Error()).Warn("Erro ao confirmar disparo no ledger")
		}
	}

	return outcomeSent
}

func (s *ReportDispatchService) release(ctx context.Context, key domain.DispatchKey, fields logrus.Fields) {
	if err := s.ledger.Release(ctx, key); err != nil {
		logrus.WithFields(fields).WithField("error", err.Error()).Warn("Erro ao liberar disparo no ledger")
	}
}

// TriggerManualSync inicia uma avaliação fora do horário do cron. Retorna
// ErrTickRunning se já houver uma em andamento.
func (s *ReportDispatchService) TriggerManualSync(ctx context.Context) error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Avaliação de relatórios já em andamento, ignorando solicitação manual")
		return ErrTickRunning
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando avaliação manual de relatórios")
	go func() {
		if _, err := s.Tick(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, ErrTickRunning) {
			logrus.WithError(err).Error("Erro na avaliação manual de relatórios")
		}
	}()

	return nil
}

func (s *ReportDispatchService) IsRunning() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	return s.syncRunning
}

// GetStatus retorna o status atual do agendador
func (s *ReportDispatchService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"dispatch_enabled":       s.config.Enabled,
		"dispatch_cron":          s.config.CronSchedule,
		"max_concurrent_jobs":    s.config.MaxConcurrentJobs,
		"idempotency_enabled":    s.config.IdempotencyEnabled,
		"timezone":               domain.CivilLocation.String(),
		"running":                s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_report":            s.lastReport,
	}
}
