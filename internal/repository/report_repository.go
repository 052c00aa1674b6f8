package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/impactboard/impactboard/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository wires a repository backed by pgxpool.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) Upsert(ctx context.Context, report domain.Report) (domain.Report, error) {
	if r.pool == nil {
		return domain.Report{}, fmt.Errorf("report repository not initialized")
	}

	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO metric_reports (ngo_id, month, people_helped, events_conducted, funds_utilized)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (ngo_id, month) DO UPDATE SET
		   people_helped = EXCLUDED.people_helped,
		   events_conducted = EXCLUDED.events_conducted,
		   funds_utilized = EXCLUDED.funds_utilized,
		   updated_at = now()
		 RETURNING ngo_id, month, people_helped, events_conducted, funds_utilized, created_at, updated_at`,
		report.NGOID,
		report.Month,
		report.PeopleHelped,
		report.EventsConducted,
		report.FundsUtilized,
	)

	var stored domain.Report
	if err := row.Scan(
		&stored.NGOID,
		&stored.Month,
		&stored.PeopleHelped,
		&stored.EventsConducted,
		&stored.FundsUtilized,
		&stored.CreatedAt,
		&stored.UpdatedAt,
	); err != nil {
		return domain.Report{}, fmt.Errorf("failed to upsert report: %w", err)
	}

	return stored, nil
}

func (r *reportRepository) Aggregate(ctx context.Context, filter domain.ReportFilter) (domain.ReportAggregate, error) {
	if r.pool == nil {
		return domain.ReportAggregate{}, fmt.Errorf("report repository not initialized")
	}

	where, args := buildReportFilter(filter)

	row := r.pool.QueryRow(
		ctx,
		`SELECT COUNT(DISTINCT ngo_id),
		        COALESCE(SUM(people_helped), 0),
		        COALESCE(SUM(events_conducted), 0),
		        COALESCE(SUM(funds_utilized), 0)
		 FROM metric_reports`+where,
		args...,
	)

	var agg domain.ReportAggregate
	if err := row.Scan(
		&agg.NGOsReporting,
		&agg.TotalPeopleHelped,
		&agg.TotalEventsConducted,
		&agg.TotalFundsUtilized,
	); err != nil {
		return domain.ReportAggregate{}, fmt.Errorf("failed to aggregate reports: %w", err)
	}

	return agg, nil
}

func (r *reportRepository) List(ctx context.Context, filter domain.ReportFilter, limit int, offset int) ([]domain.Report, int, error) {
	if r.pool == nil {
		return nil, 0, fmt.Errorf("report repository not initialized")
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	where, args := buildReportFilter(filter)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(
		ctx,
		fmt.Sprintf(
			`SELECT ngo_id, month, people_helped, events_conducted, funds_utilized, created_at, updated_at,
			        COUNT(*) OVER() AS total_count
			 FROM metric_reports%s
			 ORDER BY month DESC, ngo_id ASC
			 LIMIT $%d OFFSET $%d`,
			where, len(args)-1, len(args),
		),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []domain.Report{}
	totalCount := 0
	for rows.Next() {
		var report domain.Report
		if scanErr := rows.Scan(
			&report.NGOID,
			&report.Month,
			&report.PeopleHelped,
			&report.EventsConducted,
			&report.FundsUtilized,
			&report.CreatedAt,
			&report.UpdatedAt,
			&totalCount,
		); scanErr != nil {
			return nil, 0, fmt.Errorf("failed to scan report: %w", scanErr)
		}
		reports = append(reports, report)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, fmt.Errorf("failed to iterate reports: %w", rowsErr)
	}

	return reports, totalCount, nil
}

// buildReportFilter composes the WHERE clause shared by Aggregate and
// List. Month bounds compare lexicographically, which matches
// chronological order for the YYYY-MM shape.
func buildReportFilter(filter domain.ReportFilter) (string, []any) {
	filter = filter.Normalized()

	var clauses []string
	var args []any

	if filter.From != "" {
		args = append(args, filter.From)
		clauses = append(clauses, fmt.Sprintf("month >= $%d", len(args)))
	}
	if filter.To != "" {
		args = append(args, filter.To)
		clauses = append(clauses, fmt.Sprintf("month <= $%d", len(args)))
	}
	if filter.NGOID != "" {
		args = append(args, filter.NGOID)
		clauses = append(clauses, fmt.Sprintf("POSITION($%d IN ngo_id) > 0", len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
