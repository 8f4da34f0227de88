package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/eligibility"
)

// GetEligibilityQuestions handles GET /eligibility/questions
func GetEligibilityQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questions": eligibility.Questions()})
}

type EligibilityInput struct {
	Answers eligibility.Answers `json:"answers" binding:"required"`
}

// CheckEligibility handles POST /eligibility/check. Incomplete answer sets are
// rejected here so the evaluator only ever sees all five answers.
func CheckEligibility(c *gin.Context) {
	var input EligibilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := eligibility.Validate(input.Answers); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q, disqualified := eligibility.Disqualifier(input.Answers)
	if disqualified {
		c.JSON(http.StatusOK, gin.H{
			"eligible":       false,
			"disqualifiedBy": q,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"eligible": true})
}
