// Package typing は「入力中…」表示のフラグを管理します。
// 台本の開示待ちと返信の考え中は同時に起こり得るので、
// 表示は保留中のソースが1つでもあれば点灯、0になったら消灯します。
package typing

// Source は、入力中表示を要求している保留中の処理の識別子です。
type Source uint64

// Indicator は、保留中ソースの集合から入力中フラグを導きます。
// ゼロ値は使えません。New で生成してください。
type Indicator struct {
	next     Source
	pending  map[Source]struct{}
	onChange func(active bool)
}

// New は Indicator を生成します。onChange はフラグが変わったときだけ呼ばれます。
func New(onChange func(active bool)) *Indicator {
	return &Indicator{
		pending:  make(map[Source]struct{}),
		onChange: onChange,
	}
}

// Begin は新しいソースを登録し、そのハンドルを返します。
func (i *Indicator) Begin() Source {
	was := i.Active()
	i.next++
	src := i.next
	i.pending[src] = struct{}{}
	if !was {
		i.notify(true)
	}
	return src
}

// End はソースを取り除きます。未登録や二重の End は何もしません。
func (i *Indicator) End(src Source) {
	if _, ok := i.pending[src]; !ok {
		return
	}
	delete(i.pending, src)
	if !i.Active() {
		i.notify(false)
	}
}

// Reset はすべてのソースを取り除きます。
func (i *Indicator) Reset() {
	was := i.Active()
	clear(i.pending)
	if was {
		i.notify(false)
	}
}

func (i *Indicator) Active() bool {
	return len(i.pending) > 0
}

func (i *Indicator) Pending() int {
	return len(i.pending)
}

func (i *Indicator) notify(active bool) {
	if i.onChange != nil {
		i.onChange(active)
	}
}
