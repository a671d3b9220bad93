package model

// Score 成绩明细，对应已有的 nilai 表
type Score struct {
	ID            uint64  `gorm:"primaryKey"`
	Nama          string  `gorm:"column:nama;size:255"`
	NISN          string  `gorm:"column:nisn;size:32;index"`
	MateriUjiID   int     `gorm:"column:materi_uji_id;index"`
	PelajaranID   int     `gorm:"column:pelajaran_id"`
	NamaPelajaran string  `gorm:"column:nama_pelajaran;size:64"`
	Skor          float64 `gorm:"column:skor"`
}

func (Score) TableName() string {
	return "nilai"
}
