package library

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"scribe-ai-api/internal/domain/document"
	"scribe-ai-api/internal/domain/entity"
	"scribe-ai-api/internal/domain/repository"
	pkgerrors "scribe-ai-api/pkg/errors"
	"scribe-ai-api/pkg/logger"
)

// ListCache 文档列表缓存的最小依赖，由 Redis 缓存实现；为 nil 时直查数据库
type ListCache interface {
	GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
}

// DocumentInfo 列表项：不含正文，供前端展示
type DocumentInfo struct {
	Filename  string    `json:"filename"`
	Title     string    `json:"title"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Options 文档库配置
type Options struct {
	// SnapshotKeep 每份文档保留的最新快照条数
	SnapshotKeep int
	// ListCacheTTL 文档列表缓存的过期时间
	ListCacheTTL time.Duration
}

// DefaultOptions 返回默认文档库配置
func DefaultOptions() Options {
	return Options{
		SnapshotKeep: 10,
		ListCacheTTL: 30 * time.Second,
	}
}

// Service 文档库服务。文档正文以 JSON 文本整体存取，持久层不理解其结构；
// 快照随保存点创建，按条数滚动保留。
type Service struct {
	docRepo  repository.DocumentRepository
	snapRepo repository.SnapshotRepository
	cache    ListCache
	tx       repository.Transactor
	opts     Options
}

// NewService 创建文档库服务。cache 和 tx 可为 nil（分别退化为直查与非事务执行）。
func NewService(docRepo repository.DocumentRepository, snapRepo repository.SnapshotRepository, cache ListCache, tx repository.Transactor, opts Options) *Service {
	if opts.SnapshotKeep <= 0 {
		opts.SnapshotKeep = DefaultOptions().SnapshotKeep
	}
	if opts.ListCacheTTL <= 0 {
		opts.ListCacheTTL = DefaultOptions().ListCacheTTL
	}
	return &Service{
		docRepo:  docRepo,
		snapRepo: snapRepo,
		cache:    cache,
		tx:       tx,
		opts:     opts,
	}
}

func listCacheKey(userID string) string {
	return fmt.Sprintf("doclist:%s", userID)
}

// inTransaction 有事务管理器时在事务中执行，否则直接执行
func (s *Service) inTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.WithTransaction(ctx, fn)
}

// invalidateList 写操作后使列表缓存失效，失败仅告警
func (s *Service) invalidateList(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey(userID)); err != nil {
		logger.Warn(ctx, "failed to invalidate document list cache", "user_id", userID, "error", err.Error())
	}
}

// Save 保存文档。同名文档存在即覆盖，不存在则创建。
// 每次保存都会生成一条快照，并把快照修剪到保留上限。
func (s *Service) Save(ctx context.Context, userID, filename string, doc *document.Document) error {
	filename, err := SanitizeFilename(filename)
	if err != nil {
		return err
	}
	content, err := json.Marshal(doc)
	if err != nil {
		return pkgerrors.ErrInternalError.WithError(err)
	}

	err = s.inTransaction(ctx, func(ctx context.Context) error {
		record, err := s.docRepo.GetByUserAndFilename(ctx, userID, filename)
		if err != nil {
			return err
		}
		if record == nil {
			record = entity.NewDocumentRecord(userID, filename, doc.Title, string(content))
			if err := s.docRepo.Create(ctx, record); err != nil {
				return err
			}
		} else {
			record.Title = doc.Title
			record.Content = string(content)
			if err := s.docRepo.Update(ctx, record); err != nil {
				return err
			}
		}

		snapshot := entity.NewDocumentSnapshot(record.ID, "", filename, string(content))
		if err := s.snapRepo.Create(ctx, snapshot); err != nil {
			return err
		}
		return s.snapRepo.PruneToLatest(ctx, record.ID, s.opts.SnapshotKeep)
	})
	if err != nil {
		return err
	}

	s.invalidateList(ctx, userID)
	return nil
}

// SaveAs 另存为新文件名。目标已存在时返回冲突错误。
func (s *Service) SaveAs(ctx context.Context, userID, filename string, doc *document.Document) error {
	filename, err := SanitizeFilename(filename)
	if err != nil {
		return err
	}
	existing, err := s.docRepo.GetByUserAndFilename(ctx, userID, filename)
	if err != nil {
		return err
	}
	if existing != nil {
		return pkgerrors.ErrConflict.WithDetail(fmt.Sprintf("document %q already exists", filename))
	}
	return s.Save(ctx, userID, filename, doc)
}

// Load 加载文档并解析为领域模型
func (s *Service) Load(ctx context.Context, userID, filename string) (*document.Document, error) {
	filename, err := SanitizeFilename(filename)
	if err != nil {
		return nil, err
	}
	record, err := s.docRepo.GetByUserAndFilename(ctx, userID, filename)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, pkgerrors.ErrDocumentNotFound.WithDetail(filename)
	}
	return parseDocument(record.Content)
}

// Download 返回文档的原始 JSON 内容，供前端下载
func (s *Service) Download(ctx context.Context, userID, filename string) ([]byte, error) {
	filename, err := SanitizeFilename(filename)
	if err != nil {
		return nil, err
	}
	record, err := s.docRepo.GetByUserAndFilename(ctx, userID, filename)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, pkgerrors.ErrDocumentNotFound.WithDetail(filename)
	}
	return []byte(record.Content), nil
}

// List 按最近更新排序列出用户的全部文档，结果经 Redis 缓存
func (s *Service) List(ctx context.Context, userID string) ([]DocumentInfo, error) {
	if s.cache == nil {
		return s.listFromDB(ctx, userID)
	}

	raw, err := s.cache.GetOrLoadSafe(ctx, listCacheKey(userID), s.opts.ListCacheTTL, func() (interface{}, error) {
		return s.listFromDB(ctx, userID)
	})
	if err != nil {
		// 缓存故障降级为直查
		logger.Warn(ctx, "document list cache unavailable, falling back to database", "error", err.Error())
		return s.listFromDB(ctx, userID)
	}

	var infos []DocumentInfo
	if err := json.Unmarshal(raw, &infos); err != nil {
		return nil, pkgerrors.ErrInternalError.WithError(err)
	}
	return infos, nil
}

func (s *Service) listFromDB(ctx context.Context, userID string) ([]DocumentInfo, error) {
	records, err := s.docRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	infos := make([]DocumentInfo, 0, len(records))
	for _, r := range records {
		infos = append(infos, DocumentInfo{
			Filename:  r.Filename,
			Title:     r.Title,
			Size:      r.Size(),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return infos, nil
}

// Delete 删除文档及其全部快照
func (s *Service) Delete(ctx context.Context, userID, filename string) error {
	filename, err := SanitizeFilename(filename)
	if err != nil {
		return err
	}
	err = s.inTransaction(ctx, func(ctx context.Context) error {
		record, err := s.docRepo.GetByUserAndFilename(ctx, userID, filename)
		if err != nil {
			return err
		}
		if record == nil {
			return pkgerrors.ErrDocumentNotFound.WithDetail(filename)
		}
		if err := s.snapRepo.DeleteByDocument(ctx, record.ID); err != nil {
			return err
		}
		return s.docRepo.Delete(ctx, record.ID)
	})
	if err != nil {
		return err
	}

	s.invalidateList(ctx, userID)
	return nil
}

// CreateSnapshot 为文档显式创建一条命名快照，并修剪到保留上限
func (s *Service) CreateSnapshot(ctx context.Context, userID, filename, name string) (*entity.DocumentSnapshot, error) {
	filename, err := SanitizeFilename(filename)
	if err != nil {
		return nil, err
	}
	var snapshot *entity.DocumentSnapshot
	err = s.inTransaction(ctx, func(ctx context.Context) error {
		record, err := s.docRepo.GetByUserAndFilename(ctx, userID, filename)
		if err != nil {
			return err
		}
		if record == nil {
			return pkgerrors.ErrDocumentNotFound.WithDetail(filename)
		}
		snapshot = entity.NewDocumentSnapshot(record.ID, name, filename, record.Content)
		if err := s.snapRepo.Create(ctx, snapshot); err != nil {
			return err
		}
		return s.snapRepo.PruneToLatest(ctx, record.ID, s.opts.SnapshotKeep)
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// ListSnapshots 按创建时间倒序列出文档的快照
func (s *Service) ListSnapshots(ctx context.Context, userID, filename string) ([]*entity.DocumentSnapshot, error) {
	filename, err := SanitizeFilename(filename)
	if err != nil {
		return nil, err
	}
	record, err := s.docRepo.GetByUserAndFilename(ctx, userID, filename)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, pkgerrors.ErrDocumentNotFound.WithDetail(filename)
	}
	return s.snapRepo.ListByDocument(ctx, record.ID)
}

// LoadSnapshot 加载一条快照的文档内容。
// 归属经由父文档校验：快照所属文档必须属于当前用户。
func (s *Service) LoadSnapshot(ctx context.Context, userID, snapshotID string) (*document.Document, error) {
	snapshot, err := s.snapRepo.GetByID(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, pkgerrors.ErrSnapshotNotFound.WithDetail(snapshotID)
	}
	record, err := s.docRepo.GetByID(ctx, snapshot.DocumentID)
	if err != nil {
		return nil, err
	}
	if record == nil || record.UserID != userID {
		return nil, pkgerrors.ErrSnapshotNotFound.WithDetail(snapshotID)
	}
	return parseDocument(snapshot.Content)
}

// LoadDocument 实现工作区的文档库依赖
func (s *Service) LoadDocument(ctx context.Context, userID, filename string) (*document.Document, error) {
	return s.Load(ctx, userID, filename)
}

// SaveDocument 实现工作区的文档库依赖
func (s *Service) SaveDocument(ctx context.Context, userID, filename string, doc *document.Document) error {
	return s.Save(ctx, userID, filename, doc)
}

func parseDocument(content string) (*document.Document, error) {
	var doc document.Document
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, pkgerrors.ErrInternalError.WithError(fmt.Errorf("corrupt document content: %w", err))
	}
	return &doc, nil
}
