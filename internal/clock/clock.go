package clock

import "time"

// 現在時刻の取得を差し替え可能にする
type Clock interface {
	Now() time.Time
}

type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

// テスト用の固定時計
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}
