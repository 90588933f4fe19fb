// Package audio は、メッセージごとに1回だけ効果音を鳴らすディスパッチャです。
package audio

// PlayedSet は、キューを鳴らし終えたメッセージ ID の集合です。
// 要素は増えるだけで、取り除く操作はありません。
type PlayedSet struct {
	ids map[string]struct{}
}

func NewPlayedSet() *PlayedSet {
	return &PlayedSet{ids: make(map[string]struct{})}
}

// Played は、id のキューが既に鳴らされたかどうかを返します。
func (s *PlayedSet) Played(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// MarkPlayed は id を追加します。新しく追加されたときだけ true を返します。
func (s *PlayedSet) MarkPlayed(id string) bool {
	if s.Played(id) {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *PlayedSet) Len() int {
	return len(s.ids)
}
