package message

// Kind は、メッセージのペイロード形状を表すタグです。
// 表示側はこの値でカードの種類を切り替えます。
type Kind string

const (
	KindText     Kind = "text"
	KindPhotos   Kind = "photos"
	KindMusic    Kind = "music"
	KindLocation Kind = "location"
	KindResume   Kind = "resume"
	KindBlog     Kind = "blog"
	KindSocial   Kind = "social"
	KindProject  Kind = "project"
)

// Valid は、既知の Kind かどうかを返します。
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindPhotos, KindMusic, KindLocation, KindResume, KindBlog, KindSocial, KindProject:
		return true
	}
	return false
}

// Sender は、メッセージの送り手です。
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)
