package services

import (
	"github.com/itemguard/moderation-api/internal/classifier"
	"github.com/itemguard/moderation-api/internal/models"
)

// approvalService implements the legacy rule-based moderation check, kept
// on its own endpoint after the classifier replaced it.
type approvalService struct{}

func newApprovalService() ApprovalService {
	return &approvalService{}
}

// Approve applies the two-branch heuristic
func (s *approvalService) Approve(listing models.Listing) bool {
	return classifier.Approved(listing)
}
