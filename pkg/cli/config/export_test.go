package config

import "time"

func NewSlackForTest(botToken, channel string) *Slack {
	return &Slack{botToken: botToken, channel: channel}
}

func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{projectID: projectID, location: location}
}

func NewAuthForTest(projectID, noAuthRole, noAuthUnit string) *Auth {
	return &Auth{projectID: projectID, noAuthRole: noAuthRole, noAuthUnit: noAuthUnit}
}

func NewChatForTest(timeout time.Duration, fallback string, hosts []string) *Chat {
	return &Chat{timeout: timeout, fallback: fallback, hosts: hosts}
}

func NewRepositoryForTest(backend, projectID string) *Repository {
	return &Repository{backend: backend, projectID: projectID}
}
