package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"idea-generator-api/internal/interfaces/http/dto"
)

// Phase 表单状态
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseFailure
)

// String 返回状态名
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseFailure:
		return "failure"
	default:
		return "unknown"
	}
}

var (
	// ErrBusy 已有请求在途
	ErrBusy = errors.New("a request is already in flight")
	// ErrBlankTopic 主题为空白
	ErrBlankTopic = errors.New("topic is blank")
)

// Failure 失败时展示的错误
type Failure struct {
	// Code 服务端错误码，网络失败时为空
	Code    string
	Message string
}

// State 表单视图状态快照
// Result 仅在 PhaseSuccess 时非空，Failure 仅在 PhaseFailure 时非空
type State struct {
	Phase   Phase
	Topic   string
	Result  *dto.GenerateResponse
	Failure *Failure
}

// Loading 是否有请求在途
func (s State) Loading() bool {
	return s.Phase == PhaseLoading
}

// Ideas 成功时的创意文本
func (s State) Ideas() string {
	if s.Phase != PhaseSuccess || s.Result == nil {
		return ""
	}
	return s.Result.Ideas
}

// Error 失败时的错误文案
func (s State) Error() string {
	if s.Phase != PhaseFailure || s.Failure == nil {
		return ""
	}
	return s.Failure.Message
}

// Generator 生成调用方
type Generator interface {
	Generate(ctx context.Context, topic string) (*dto.GenerateResponse, error)
}

// FormController 表单控制器
// 状态迁移：Idle -> Loading -> {Success, Failure}，只在提交与调用完成时发生
type FormController struct {
	mu       sync.Mutex
	gen      Generator
	topic    string
	state    State
	onChange func(State)
}

// NewFormController 创建表单控制器；onChange 可为 nil
// onChange 在每次状态迁移后、锁释放之后同步调用，可以安全地调用 State/CanSubmit，
// 但不应再调用 Submit（会得到 ErrBusy）
func NewFormController(gen Generator, onChange func(State)) *FormController {
	return &FormController{
		gen:      gen,
		onChange: onChange,
	}
}

// SetTopic 更新输入框内容，不改变状态
func (f *FormController) SetTopic(topic string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topic = topic
}

// CanSubmit 非加载中且主题非空白时可提交
func (f *FormController) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canSubmitLocked()
}

func (f *FormController) canSubmitLocked() bool {
	return f.state.Phase != PhaseLoading && strings.TrimSpace(f.topic) != ""
}

// State 返回当前状态快照
func (f *FormController) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submit 提交当前主题并阻塞至调用完成
// 加载中返回 ErrBusy，主题空白返回 ErrBlankTopic，均不改变状态
func (f *FormController) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state.Phase == PhaseLoading {
		f.mu.Unlock()
		return ErrBusy
	}
	if !f.canSubmitLocked() {
		f.mu.Unlock()
		return ErrBlankTopic
	}
	topic := f.topic
	loading := State{Phase: PhaseLoading, Topic: topic}
	f.state = loading
	notify := f.onChange
	f.mu.Unlock()

	if notify != nil {
		notify(loading)
	}

	res, err := f.gen.Generate(ctx, topic)
	if err != nil {
		f.transition(State{Phase: PhaseFailure, Topic: topic, Failure: failureFrom(err)})
		return nil
	}
	f.transition(State{Phase: PhaseSuccess, Topic: topic, Result: res})
	return nil
}

// transition 在锁内替换状态，锁外通知观察者
func (f *FormController) transition(next State) {
	f.mu.Lock()
	f.state = next
	notify := f.onChange
	f.mu.Unlock()

	if notify != nil {
		notify(next)
	}
}

// failureFrom 服务端结构化错误直接展示其文案，其余错误视为网络失败
func failureFrom(err error) *Failure {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &Failure{Code: apiErr.Code, Message: apiErr.Message}
	}
	return &Failure{Message: "An error occurred: " + err.Error()}
}
