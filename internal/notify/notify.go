package notify

import "context"

// Notifier — короткие служебные сообщения персоналу (итог ежедневной выдачи и т.п.).
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

type Nop struct{}

func (Nop) Notify(context.Context, string) error { return nil }
