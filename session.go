package fluentdao

import (
	"context"

	"github.com/biyonik/go-fluent-dao/filter"
)

// Session, "geçerli tablo" kavramını taşıyan durumlu bir cephedir.
//
// Her metot bir tablo adı alır. Boş ad geçerli tabloyu kullanır; dolu bir ad
// geçerli tabloyu o tabloya çevirir. Hiç tablo bağlanmamışken boş ad
// ValidationError (ErrUnboundTable) döndürür.
//
// Session eşzamanlı kullanım için güvenli değildir. Paylaşılan kod Table
// tutamaçlarını kullanmalıdır.
type Session struct {
	acc     *Accessor
	current *Table
}

// NewSession, bir Session oluşturur. table boşsa Session bağlanmamış başlar.
func (a *Accessor) NewSession(table string) (*Session, error) {
	s := &Session{acc: a}
	if table == "" {
		return s, nil
	}
	if err := s.Bind(table); err != nil {
		return nil, err
	}
	return s, nil
}

// Bind, geçerli tabloyu değiştirir.
func (s *Session) Bind(table string) error {
	t, err := s.acc.Bind(table)
	if err != nil {
		return err
	}
	s.current = t
	return nil
}

// Current, geçerli tablonun adını döndürür; bağlanmamışsa boş string.
func (s *Session) Current() string {
	if s.current == nil {
		return ""
	}
	return s.current.Name()
}

func (s *Session) resolve(table string) (*Table, error) {
	if table == "" {
		if s.current == nil {
			return nil, &ValidationError{Field: "table", Err: ErrUnboundTable}
		}
		return s.current, nil
	}
	if s.current != nil && s.current.Name() == table {
		return s.current, nil
	}
	if err := s.Bind(table); err != nil {
		return nil, err
	}
	return s.current, nil
}

func (s *Session) SelectOne(ctx context.Context, table string, f filter.Filters) (*Row, error) {
	t, err := s.resolve(table)
	if err != nil {
		return nil, err
	}
	return t.SelectOne(ctx, f)
}

func (s *Session) SelectByPrimaryKey(ctx context.Context, table string, key any) (*Row, error) {
	t, err := s.resolve(table)
	if err != nil {
		return nil, err
	}
	return t.SelectByPrimaryKey(ctx, key)
}

func (s *Session) SelectAll(ctx context.Context, table string, f filter.Filters) ([]*Row, error) {
	t, err := s.resolve(table)
	if err != nil {
		return nil, err
	}
	return t.SelectAll(ctx, f)
}

func (s *Session) Count(ctx context.Context, table string, f filter.Filters) (int64, error) {
	t, err := s.resolve(table)
	if err != nil {
		return 0, err
	}
	return t.Count(ctx, f)
}

func (s *Session) SelectPage(ctx context.Context, table string, page filter.Page, f filter.Filters) (*PageResult, error) {
	t, err := s.resolve(table)
	if err != nil {
		return nil, err
	}
	return t.SelectPage(ctx, page, f)
}

func (s *Session) Save(ctx context.Context, table string, rec Record) (int64, error) {
	t, err := s.resolve(table)
	if err != nil {
		return 0, err
	}
	return t.Save(ctx, rec)
}

func (s *Session) Update(ctx context.Context, table string, rec Record) (int64, error) {
	t, err := s.resolve(table)
	if err != nil {
		return 0, err
	}
	return t.Update(ctx, rec)
}

func (s *Session) UpdateSelective(ctx context.Context, table string, rec Record) (int64, error) {
	t, err := s.resolve(table)
	if err != nil {
		return 0, err
	}
	return t.UpdateSelective(ctx, rec)
}

func (s *Session) Remove(ctx context.Context, table string, rec Record) (int64, error) {
	t, err := s.resolve(table)
	if err != nil {
		return 0, err
	}
	return t.Remove(ctx, rec)
}

func (s *Session) RemoveByPrimaryKey(ctx context.Context, table string, key any) (int64, error) {
	t, err := s.resolve(table)
	if err != nil {
		return 0, err
	}
	return t.RemoveByPrimaryKey(ctx, key)
}
