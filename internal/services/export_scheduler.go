package services

import (
	"context"
	"github.com/maxaizer/lead-dorker/internal/logger"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type workbookExporter interface {
	Export(ctx context.Context, outputFile string) (string, error)
}

// ExportScheduler writes a fresh timestamped workbook on every cron tick.
type ExportScheduler struct {
	exporter workbookExporter
	cron     *cron.Cron
	ctx      context.Context
}

func NewExportScheduler(ctx context.Context, exporter workbookExporter, schedule string) (*ExportScheduler, error) {

	if schedule == "" {
		return nil, errors.New("export schedule is empty")
	}

	es := &ExportScheduler{
		exporter: exporter,
		cron:     cron.New(),
		ctx:      ctx,
	}

	_, err := es.cron.AddFunc(schedule, es.export)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid export schedule %q", schedule)
	}

	es.cron.Start()
	log.Infof("export scheduler started, schedule: %s", schedule)
	return es, nil
}

// Stop halts the scheduler and waits for a running export to finish.
func (es *ExportScheduler) Stop() {
	<-es.cron.Stop().Done()
}

func (es *ExportScheduler) export() {
	file, err := es.exporter.Export(es.ctx, "")
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeExport).Errorf("scheduled export failed: %v", err)
	} else {
		log.Infof("scheduled export written to %s", file)
	}
}
