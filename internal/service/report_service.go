package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"Office_Hub/internal/model"

	"github.com/google/uuid"
)

const (
	materiRT        = 7
	materiST        = 4
	excludedSubject = "Pelajaran Khusus"

	reportCacheTTL = 5 * time.Minute
	reportLockTTL  = 5 * time.Second
	reportRTKey    = "report:nilai-rt"
	reportSTKey    = "report:nilai-st"
)

// stWeights ST 各科目的权重及输出字段名
var stWeights = map[int]struct {
	field  string
	weight float64
}{
	44: {"verbal", 41.67},
	45: {"kuantitatif", 29.67},
	46: {"penalaran", 100},
	47: {"figural", 23.81},
}

type RTReport struct {
	Nama    string         `json:"nama"`
	NISN    string         `json:"nisn"`
	NilaiRT map[string]int `json:"nilaiRt"`
}

type STScores struct {
	Verbal      float64 `json:"verbal"`
	Kuantitatif float64 `json:"kuantitatif"`
	Penalaran   float64 `json:"penalaran"`
	Figural     float64 `json:"figural"`
}

type STReport struct {
	Nama      string   `json:"nama"`
	NISN      string   `json:"nisn"`
	Total     float64  `json:"total"`
	ListNilai STScores `json:"listNilai"`
}

type ReportService struct {
	repo  ScoreRepository
	cache Cache
	lock  Locker
}

// NewReportService cache、lock 可为 nil
func NewReportService(repo ScoreRepository, cache Cache, lock Locker) *ReportService {
	return &ReportService{repo: repo, cache: cache, lock: lock}
}

func (s *ReportService) NilaiRT(ctx context.Context) ([]RTReport, error) {
	var out []RTReport
	err := s.cached(ctx, reportRTKey, &out, func() (any, error) {
		rows, err := s.repo.ListByMateri(ctx, materiRT)
		if err != nil {
			return nil, err
		}
		out = BuildRT(rows)
		return out, nil
	})
	return out, err
}

func (s *ReportService) NilaiST(ctx context.Context) ([]STReport, error) {
	var out []STReport
	err := s.cached(ctx, reportSTKey, &out, func() (any, error) {
		rows, err := s.repo.ListByMateri(ctx, materiST)
		if err != nil {
			return nil, err
		}
		out = BuildST(rows)
		return out, nil
	})
	return out, err
}

// BuildRT 按 nisn 分组（保持首次出现顺序），科目名转小写作为 key，分数取整
func BuildRT(rows []model.Score) []RTReport {
	out := []RTReport{}
	index := make(map[string]int)
	for _, r := range rows {
		if r.NamaPelajaran == excludedSubject {
			continue
		}
		i, ok := index[r.NISN]
		if !ok {
			i = len(out)
			index[r.NISN] = i
			out = append(out, RTReport{Nama: r.Nama, NISN: r.NISN, NilaiRT: map[string]int{}})
		}
		out[i].NilaiRT[strings.ToLower(r.NamaPelajaran)] = int(r.Skor)
	}
	return out
}

// BuildST 按 (nama, nisn) 加权汇总，总分降序
func BuildST(rows []model.Score) []STReport {
	out := []STReport{}
	index := make(map[[2]string]int)
	for _, r := range rows {
		key := [2]string{r.Nama, r.NISN}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, STReport{Nama: r.Nama, NISN: r.NISN})
		}
		w, ok := stWeights[r.PelajaranID]
		if !ok {
			continue
		}
		v := r.Skor * w.weight
		switch w.field {
		case "verbal":
			out[i].ListNilai.Verbal += v
		case "kuantitatif":
			out[i].ListNilai.Kuantitatif += v
		case "penalaran":
			out[i].ListNilai.Penalaran += v
		case "figural":
			out[i].ListNilai.Figural += v
		}
		out[i].Total += v
	}

	for i := range out {
		out[i].Total = round2(out[i].Total)
		out[i].ListNilai = STScores{
			Verbal:      round2(out[i].ListNilai.Verbal),
			Kuantitatif: round2(out[i].ListNilai.Kuantitatif),
			Penalaran:   round2(out[i].ListNilai.Penalaran),
			Figural:     round2(out[i].ListNilai.Figural),
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Total > out[b].Total })
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// cached 读缓存；未命中时抢锁重建，双重检查避免并发回源
func (s *ReportService) cached(ctx context.Context, key string, dst any, rebuild func() (any, error)) error {
	if s.cache == nil {
		_, err := rebuild()
		return err
	}
	// 第一次从缓存读
	if ok, err := s.cache.GetJSON(ctx, key, dst); err == nil && ok {
		return nil
	}

	if s.lock != nil {
		token := uuid.NewString()
		got, err := s.lock.Acquire(ctx, key, token, reportLockTTL)
		if err != nil {
			log.Printf("acquire report lock %s: %v", key, err)
		}
		if got {
			defer func() {
				if err := s.lock.Release(context.WithoutCancel(ctx), key, token); err != nil {
					log.Printf("release report lock %s: %v", key, err)
				}
			}()
			// 第二次检查
			if ok, err := s.cache.GetJSON(ctx, key, dst); err == nil && ok {
				return nil
			}
		} else if err == nil {
			// 没拿到锁，短暂退避后再读一次缓存，避免全体打DB
			time.Sleep(50 * time.Millisecond)
			if ok, err := s.cache.GetJSON(ctx, key, dst); err == nil && ok {
				return nil
			}
		}
	}

	v, err := rebuild()
	if err != nil {
		return fmt.Errorf("build %s: %w", key, err)
	}
	if err = s.cache.SetJSON(ctx, key, v, reportCacheTTL); err != nil {
		log.Printf("cache %s: %v", key, err)
	}
	return nil
}
