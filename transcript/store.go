// Package transcript は、会話の全体列と表示列を保持するストアです。
// 全体列を伸ばせるのは AppendAuthored と AppendRuntime、
// 表示列を伸ばせるのは RevealNext（台本）と Admit（実行時）だけです。
package transcript

import (
	"errors"
	"fmt"

	"github.com/sat8bit/kaiwa/message"
)

var (
	// ErrDuplicateID は、既に存在する ID を追加しようとしたときのエラーです。
	ErrDuplicateID = errors.New("duplicate message id")
	// ErrExhausted は、開示できる台本メッセージが残っていないときのエラーです。
	ErrExhausted = errors.New("reveal cursor exhausted")
	// ErrInvalidMessage は、nil や ID の無いメッセージを追加しようとしたときのエラーです。
	ErrInvalidMessage = errors.New("invalid message")
	// ErrNotAdmittable は、Admit できないメッセージ（未知、台本、表示済み）のエラーです。
	ErrNotAdmittable = errors.New("message not admittable")
)

type entry struct {
	msg     *message.Message
	runtime bool
}

// Store は、全体列（台本 + 実行時に追加されたもの）と表示列を持ちます。
// 表示列の順序はコミット順で、それぞれの出所（台本／実行時）の中では
// 全体列の順序を保ちます。表示列は縮みません。
//
// Store 自体はロックを持ちません。呼び出し側（reveal.Host）が
// 単一の所有者としてすべての操作を直列化します。
type Store struct {
	full    []entry
	visible []*message.Message
	ids     map[string]struct{}
	shown   map[string]struct{}
	cursor  int
}

// New は空の Store を生成します。
func New() *Store {
	return &Store{
		ids:   make(map[string]struct{}),
		shown: make(map[string]struct{}),
	}
}

// AppendAuthored は、台本を一括で全体列に追加します。
// 1件でも不正なものがあれば、何も追加せずにエラーを返します。
func (s *Store) AppendAuthored(items []*message.Message) error {
	batch := make(map[string]struct{}, len(items))
	for i, m := range items {
		if m == nil || m.ID == "" {
			return fmt.Errorf("authored item %d: %w", i, ErrInvalidMessage)
		}
		if _, ok := s.ids[m.ID]; ok {
			return fmt.Errorf("authored item %q: %w", m.ID, ErrDuplicateID)
		}
		if _, ok := batch[m.ID]; ok {
			return fmt.Errorf("authored item %q: %w", m.ID, ErrDuplicateID)
		}
		batch[m.ID] = struct{}{}
	}

	for _, m := range items {
		s.full = append(s.full, entry{msg: m})
		s.ids[m.ID] = struct{}{}
	}
	return nil
}

// AppendRuntime は、実行時のメッセージ（ユーザーの送信、外部からの返信）を
// 全体列に追加します。visible なら同時に表示列にも入れ、そうでなければ
// Admit されるまで表示列の外で待たせます。台本のカーソルは動きません。
func (s *Store) AppendRuntime(m *message.Message, visible bool) error {
	if m == nil || m.ID == "" {
		return fmt.Errorf("runtime item: %w", ErrInvalidMessage)
	}
	if _, ok := s.ids[m.ID]; ok {
		return fmt.Errorf("runtime item %q: %w", m.ID, ErrDuplicateID)
	}
	s.full = append(s.full, entry{msg: m, runtime: true})
	s.ids[m.ID] = struct{}{}
	if visible {
		s.show(m)
	}
	return nil
}

// Admit は、表示待ちの実行時メッセージを表示列に入れます。
func (s *Store) Admit(id string) (*message.Message, error) {
	for _, e := range s.full {
		if e.msg.ID != id {
			continue
		}
		if !e.runtime {
			return nil, fmt.Errorf("admit %q: authored item: %w", id, ErrNotAdmittable)
		}
		if _, ok := s.shown[id]; ok {
			return nil, fmt.Errorf("admit %q: already visible: %w", id, ErrNotAdmittable)
		}
		s.show(e.msg)
		return e.msg, nil
	}
	return nil, fmt.Errorf("admit %q: unknown id: %w", id, ErrNotAdmittable)
}

// Peek は、次に開示される台本メッセージを返します。カーソルは動かしません。
func (s *Store) Peek() (*message.Message, bool) {
	i := s.nextAuthored()
	if i < 0 {
		return nil, false
	}
	return s.full[i].msg, true
}

// RevealNext は、カーソル位置の台本メッセージを表示列に移し、カーソルを進めます。
// 実行時のメッセージは Admit で表示するので読み飛ばします。
func (s *Store) RevealNext() (*message.Message, error) {
	i := s.nextAuthored()
	if i < 0 {
		s.cursor = len(s.full)
		return nil, ErrExhausted
	}
	m := s.full[i].msg
	s.cursor = i + 1
	s.show(m)
	return m, nil
}

// nextAuthored は、カーソル以降で最初のまだ表示されていない台本メッセージの
// 添字を返します。無ければ -1 です。
func (s *Store) nextAuthored() int {
	for i := s.cursor; i < len(s.full); i++ {
		e := s.full[i]
		if e.runtime {
			continue
		}
		if _, ok := s.shown[e.msg.ID]; ok {
			continue
		}
		return i
	}
	return -1
}

func (s *Store) show(m *message.Message) {
	s.visible = append(s.visible, m)
	s.shown[m.ID] = struct{}{}
}

// Full は全体列のコピーを返します。
func (s *Store) Full() []*message.Message {
	out := make([]*message.Message, len(s.full))
	for i, e := range s.full {
		out[i] = e.msg
	}
	return out
}

// Visible は表示列のコピーを返します。
func (s *Store) Visible() []*message.Message {
	out := make([]*message.Message, len(s.visible))
	copy(out, s.visible)
	return out
}

func (s *Store) Len() int        { return len(s.full) }
func (s *Store) VisibleLen() int { return len(s.visible) }
func (s *Store) Cursor() int     { return s.cursor }

// IsVisible は、id のメッセージが表示列にあるかどうかを返します。
func (s *Store) IsVisible(id string) bool {
	_, ok := s.shown[id]
	return ok
}

// Settled は、開示待ちの台本メッセージが残っていないかどうかを返します。
func (s *Store) Settled() bool {
	return s.nextAuthored() < 0
}
