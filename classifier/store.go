package classifier

import (
	"strings"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/go-sql-driver/mysql"

	"github.com/kaiachain/chainetl/common"
)

// classificationRow is the gorm-mapped persistent record of a contract's
// verdict, keyed by address. Re-classifying on every pipeline run would
// mean re-probing supportsInterface for every contract on every extract;
// this table lets a re-run of the same block range skip contracts it has
// already classified.
type classificationRow struct {
	Address           string `gorm:"primary_key;size:42"`
	IsERC20           bool
	IsERC721          bool
	IsERC1155         bool
	FunctionSighashes string `gorm:"type:text"` // comma-joined, gorm has no native []string column
	ClassifiedAt      time.Time
}

func (classificationRow) TableName() string { return "contract_classifications" }

// Store is the two-level classification cache: an in-process LRU in
// front of a MySQL-backed table, mirroring the teacher's datasync
// chaindatafetcher repositories (an in-memory cache guarding a SQL
// table so a hot contract address doesn't round-trip to the database on
// every block).
type Store struct {
	db    *gorm.DB
	cache common.Cache
}

// NewStore opens (and migrates) the classification table at dsn, a
// standard go-sql-driver/mysql DSN.
func NewStore(dsn string, cacheSize int) (*Store, error) {
	db, err := gorm.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&classificationRow{}).Error; err != nil {
		db.Close()
		return nil, err
	}

	cache, err := common.NewCache(common.LRUConfig{CacheSize: cacheSize})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cache: cache}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// Get returns a previously stored verdict for address, checking the
// in-process cache before falling back to the database.
func (s *Store) Get(address string) (Verdict, bool) {
	key := common.ClassificationKey{Address: address}
	if v, ok := s.cache.Get(key); ok {
		return v.(Verdict), true
	}

	var row classificationRow
	if err := s.db.Where("address = ?", address).First(&row).Error; err != nil {
		return Verdict{}, false
	}
	v := Verdict{
		IsERC20:           row.IsERC20,
		IsERC721:          row.IsERC721,
		IsERC1155:         row.IsERC1155,
		FunctionSighashes: splitSighashes(row.FunctionSighashes),
	}
	s.cache.Add(key, v)
	return v, true
}

// Put persists a freshly computed verdict for address.
func (s *Store) Put(address string, v Verdict) error {
	row := classificationRow{
		Address:           address,
		IsERC20:           v.IsERC20,
		IsERC721:          v.IsERC721,
		IsERC1155:         v.IsERC1155,
		FunctionSighashes: strings.Join(v.FunctionSighashes, ","),
		ClassifiedAt:      time.Now(),
	}
	if err := s.db.Save(&row).Error; err != nil {
		return err
	}
	s.cache.Add(common.ClassificationKey{Address: address}, v)
	return nil
}

func splitSighashes(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}
