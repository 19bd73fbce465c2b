package portal

import (
	"context"
	"net/http"
)

func (c *Client) SkillTests(ctx context.Context) ([]SkillTest, error) {
	return getList[SkillTest](ctx, c, "/skill-tests", "tests", nil)
}

// TestQuestions draws the questions for one attempt at a test
func (c *Client) TestQuestions(ctx context.Context, testID ID) (*TestPaper, error) {
	paper, err := getJSON[TestPaper](ctx, c, path("/skill-tests", testID.String(), "questions"), nil)
	if err != nil {
		return nil, err
	}
	return &paper, nil
}

// SubmitTest grades an attempt
func (c *Client) SubmitTest(ctx context.Context, testID ID, submission TestSubmission) (*TestResult, error) {
	return sendObject[TestResult](ctx, c, http.MethodPost, path("/skill-tests", testID.String(), "submit"), "result", submission)
}

func (c *Client) MyTestResults(ctx context.Context) ([]TestResult, error) {
	return getList[TestResult](ctx, c, "/skill-tests/results/my-tests", "results", nil)
}
