package usecase

import (
	"time"

	"github.com/secmon-lab/eoms/pkg/domain/interfaces"
	"github.com/secmon-lab/eoms/pkg/service/assistant"
	"github.com/secmon-lab/eoms/pkg/service/slack"
)

const (
	// DefaultChatTimeout bounds one chatbot round trip to the model
	DefaultChatTimeout = 20 * time.Second
	// DefaultChatFallback is shown when the model is unavailable
	DefaultChatFallback = "Sorry, the assistant is unavailable right now. Please try again later or contact the QA office."
)

type UseCases struct {
	repo         interfaces.Repository
	slackService slack.Service
	slackChannel string
	assistant    assistant.Service
	chatTimeout  time.Duration
	chatFallback string
	linkHosts    []string
	now          func() time.Time

	Submission *SubmissionUseCase
	MasterData *MasterDataUseCase
	Risk       *RiskUseCase
	Finding    *FindingUseCase
	Dashboard  *DashboardUseCase
	Chat       *ChatUseCase
	Link       *LinkUseCase
	Admin      *AdminUseCase
	Notify     *NotifyUseCase
	Auth       AuthUseCaseInterface
}

type Option func(*UseCases)

// WithSlack enables Slack notifications to channelID
func WithSlack(svc slack.Service, channelID string) Option {
	return func(uc *UseCases) {
		uc.slackService = svc
		uc.slackChannel = channelID
	}
}

// WithAssistant enables the chatbot and the AI link judgement
func WithAssistant(svc assistant.Service) Option {
	return func(uc *UseCases) {
		uc.assistant = svc
	}
}

// WithChatTimeout bounds each model call: chatbot answers and link judgements
func WithChatTimeout(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.chatTimeout = d
	}
}

func WithChatFallback(msg string) Option {
	return func(uc *UseCases) {
		uc.chatFallback = msg
	}
}

// WithLinkHosts sets the file-hosting hosts submissions may link to
func WithLinkHosts(hosts []string) Option {
	return func(uc *UseCases) {
		uc.linkHosts = hosts
	}
}

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:         repo,
		chatTimeout:  DefaultChatTimeout,
		chatFallback: DefaultChatFallback,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Notify = NewNotifyUseCase(repo, uc.slackService, uc.slackChannel)
	uc.Submission = NewSubmissionUseCase(repo, uc.Notify, uc.now)
	uc.MasterData = NewMasterDataUseCase(repo)
	uc.Risk = NewRiskUseCase(repo)
	uc.Finding = NewFindingUseCase(repo)
	uc.Dashboard = NewDashboardUseCase(repo, uc.Notify)
	uc.Chat = NewChatUseCase(repo, uc.assistant, uc.chatTimeout, uc.chatFallback)
	uc.Link = NewLinkUseCase(uc.assistant, uc.linkHosts, uc.chatTimeout)
	uc.Admin = NewAdminUseCase(repo, uc.now)

	return uc
}
