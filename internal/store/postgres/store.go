package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oakline/boardvault/internal/domain"
)

type Store struct {
	pool           *pgxpool.Pool
	orgs           *OrgRepo
	users          *UserRepo
	decisions      *DecisionRepo
	approvals      *ApprovalRepo
	reports        *ReportRepo
	boardPacks     *BoardPackRepo
	secrets        *SecretRepo
	secretVersions *SecretVersionRepo
	accessGrants   *AccessGrantRepo
	documents      *DocumentRepo
	audit          *AuditRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:           pool,
		orgs:           NewOrgRepo(pool),
		users:          NewUserRepo(pool),
		decisions:      NewDecisionRepo(pool),
		approvals:      NewApprovalRepo(pool),
		reports:        NewReportRepo(pool),
		boardPacks:     NewBoardPackRepo(pool),
		secrets:        NewSecretRepo(pool),
		secretVersions: NewSecretVersionRepo(pool),
		accessGrants:   NewAccessGrantRepo(pool),
		documents:      NewDocumentRepo(pool),
		audit:          NewAuditRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Orgs() domain.OrganizationRepository            { return s.orgs }
func (s *Store) Users() domain.UserRepository                   { return s.users }
func (s *Store) Decisions() domain.DecisionRepository           { return s.decisions }
func (s *Store) Approvals() domain.ApprovalRepository           { return s.approvals }
func (s *Store) Reports() domain.ReportRepository               { return s.reports }
func (s *Store) BoardPacks() domain.BoardPackRepository         { return s.boardPacks }
func (s *Store) Secrets() domain.SecretRepository               { return s.secrets }
func (s *Store) SecretVersions() domain.SecretVersionRepository { return s.secretVersions }
func (s *Store) AccessGrants() domain.AccessGrantRepository     { return s.accessGrants }
func (s *Store) Documents() domain.DocumentRepository           { return s.documents }
func (s *Store) Audit() domain.AuditRepository                  { return s.audit }
