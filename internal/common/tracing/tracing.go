// Package tracing はX-Rayのサブセグメントを扱う薄いラッパーです。
// 親セグメントが無いコンテキスト(テストやトレース無効時)でも安全に呼び出せます。
package tracing

import (
	"context"
	"sync"

	"github.com/aws/aws-xray-sdk-go/xray"
	log "github.com/sirupsen/logrus"
)

type Span struct {
	seg  *xray.Segment
	once sync.Once
}

// Start は親セグメントがある場合のみサブセグメントを開始します
func Start(ctx context.Context, name string) (context.Context, *Span) {
	if xray.GetSegment(ctx) == nil {
		return ctx, &Span{}
	}
	ctx, seg := xray.BeginSubsegment(ctx, name)
	return ctx, &Span{seg: seg}
}

// AddMetadata はセグメントにメタデータを追加します
func (s *Span) AddMetadata(key string, value interface{}) {
	if s == nil || s.seg == nil {
		return
	}
	if err := s.seg.AddMetadata(key, value); err != nil {
		log.Printf("Failed to add %s metadata: %v", key, err)
	}
}

// End はセグメントを閉じます。2回目以降の呼び出しは無視されます
func (s *Span) End(err error) {
	if s == nil || s.seg == nil {
		return
	}
	s.once.Do(func() {
		s.seg.Close(err)
	})
}
