package services

import (
	"context"
	"errors"
	"testing"

	"studyhall-backend/internal/models"
	"studyhall-backend/internal/repository"
)

const (
	ownerID    = uint(1)
	strangerID = uint(2)
	quizID     = uint(7)
)

// twoQuestionQuiz builds a quiz owned by ownerID with two questions:
// question 10 (correct option 101, has an explanation) and question 20
// (correct option 202, no explanation).
func twoQuestionQuiz() *models.Quiz {
	return &models.Quiz{
		ID:       quizID,
		CourseID: 3,
		Title:    "Go Basics",
		Course:   models.Course{ID: 3, UserID: ownerID, Title: "Go"},
		Questions: []models.Question{
			{
				ID:          10,
				QuizID:      quizID,
				Text:        "What does the := operator do?",
				Explanation: "Short variable declaration declares and initializes.",
				OrderNum:    1,
				Options: []models.Option{
					{ID: 101, QuestionID: 10, Text: "Declare and initialize", OptionIndex: 0, IsCorrect: true},
					{ID: 102, QuestionID: 10, Text: "Compare values", OptionIndex: 1},
					{ID: 103, QuestionID: 10, Text: "Assign only", OptionIndex: 2},
				},
			},
			{
				ID:       20,
				QuizID:   quizID,
				Text:     "Which keyword starts a goroutine?",
				OrderNum: 2,
				Options: []models.Option{
					{ID: 201, QuestionID: 20, Text: "async", OptionIndex: 0},
					{ID: 202, QuestionID: 20, Text: "go", OptionIndex: 1, IsCorrect: true},
					{ID: 203, QuestionID: 20, Text: "spawn", OptionIndex: 2},
				},
			},
		},
	}
}

func newFixture(t *testing.T) (*AttemptService, *repository.MemoryAttemptStore) {
	t.Helper()
	store := repository.NewMemoryAttemptStore()
	source := repository.NewStaticQuizSource(map[uint]*models.Quiz{
		quizID: twoQuestionQuiz(),
	})
	return NewAttemptService(store, source), store
}

func TestStartAttempt(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	handle, err := svc.Start(ctx, quizID, ownerID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if handle.AttemptID == 0 {
		t.Error("expected a persisted attempt id")
	}
	if handle.QuizID != quizID || handle.QuizTitle != "Go Basics" {
		t.Errorf("handle quiz = (%d, %q), want (%d, %q)", handle.QuizID, handle.QuizTitle, quizID, "Go Basics")
	}
	if handle.TotalQuestions != 2 || handle.CurrentQuestionIndex != 0 {
		t.Errorf("handle progress = (%d, %d), want (2, 0)", handle.TotalQuestions, handle.CurrentQuestionIndex)
	}
	if handle.FirstQuestion == nil || handle.FirstQuestion.ID != 10 {
		t.Fatalf("first question = %+v, want question 10", handle.FirstQuestion)
	}
	if len(handle.FirstQuestion.Options) != 3 {
		t.Errorf("first question options = %d, want 3", len(handle.FirstQuestion.Options))
	}
}

func TestStartErrors(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	if _, err := svc.Start(ctx, 999, ownerID); !errors.Is(err, models.ErrQuizNotFound) {
		t.Errorf("missing quiz: got %v, want ErrQuizNotFound", err)
	}
	if _, err := svc.Start(ctx, quizID, strangerID); !errors.Is(err, models.ErrNotCourseOwner) {
		t.Errorf("stranger: got %v, want ErrNotCourseOwner", err)
	}

	empty := &models.Quiz{ID: 8, Title: "Empty", Course: models.Course{UserID: ownerID}}
	svcEmpty := NewAttemptService(repository.NewMemoryAttemptStore(),
		repository.NewStaticQuizSource(map[uint]*models.Quiz{8: empty}))
	if _, err := svcEmpty.Start(ctx, 8, ownerID); !errors.Is(err, models.ErrQuizHasNoQuestions) {
		t.Errorf("empty quiz: got %v, want ErrQuizHasNoQuestions", err)
	}
}

func TestFullWalkthrough(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	handle, err := svc.Start(ctx, quizID, ownerID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := handle.AttemptID

	// Question 10, correct answer.
	sub, err := svc.Submit(ctx, id, ownerID, 10, 101)
	if err != nil {
		t.Fatalf("Submit q10: %v", err)
	}
	if !sub.IsCorrect || sub.CorrectAnswerID != 101 {
		t.Errorf("q10 submission = %+v, want correct with answer 101", sub)
	}
	if sub.FeedbackText != "Short variable declaration declares and initializes." {
		t.Errorf("q10 feedback = %q, want the authored explanation", sub.FeedbackText)
	}

	next, err := svc.Next(ctx, id, ownerID)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if next.IsComplete || next.CurrentQuestionIndex != 1 {
		t.Errorf("after first next: complete=%v index=%d, want in progress at 1", next.IsComplete, next.CurrentQuestionIndex)
	}
	if next.NextQuestion == nil || next.NextQuestion.ID != 20 {
		t.Fatalf("next question = %+v, want question 20", next.NextQuestion)
	}

	// Question 20, wrong answer, no explanation authored.
	sub, err = svc.Submit(ctx, id, ownerID, 20, 201)
	if err != nil {
		t.Fatalf("Submit q20: %v", err)
	}
	if sub.IsCorrect || sub.CorrectAnswerID != 202 {
		t.Errorf("q20 submission = %+v, want incorrect with answer 202", sub)
	}
	if sub.FeedbackText != "Incorrect." {
		t.Errorf("q20 feedback = %q, want %q", sub.FeedbackText, "Incorrect.")
	}

	next, err = svc.Next(ctx, id, ownerID)
	if err != nil {
		t.Fatalf("final Next: %v", err)
	}
	if !next.IsComplete || next.NextQuestion != nil {
		t.Errorf("after last next: complete=%v question=%+v, want complete with no question", next.IsComplete, next.NextQuestion)
	}

	result, err := svc.Finalize(ctx, id, ownerID)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if result.Score != 1 || result.TotalQuestions != 2 || result.Percentage != 50 {
		t.Errorf("result = %+v, want score 1/2 at 50%%", result)
	}
	if result.CompletedAt == nil {
		t.Error("expected a completion timestamp")
	}

	// Finalize again: same result, same timestamp.
	again, err := svc.Finalize(ctx, id, ownerID)
	if err != nil {
		t.Fatalf("second Finalize: %v", err)
	}
	if again.Score != result.Score || again.Percentage != result.Percentage {
		t.Errorf("repeat finalize = %+v, want %+v", again, result)
	}
	if again.CompletedAt == nil || !again.CompletedAt.Equal(*result.CompletedAt) {
		t.Error("repeat finalize changed the completion timestamp")
	}
}

func TestDuplicateSubmissionKeepsFirstOutcome(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	handle, err := svc.Start(ctx, quizID, ownerID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := handle.AttemptID

	if _, err := svc.Submit(ctx, id, ownerID, 10, 102); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := svc.Submit(ctx, id, ownerID, 10, 101); !errors.Is(err, models.ErrAlreadyAnswered) {
		t.Fatalf("second submit: got %v, want ErrAlreadyAnswered", err)
	}

	if _, err := svc.Next(ctx, id, ownerID); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, err := svc.Submit(ctx, id, ownerID, 20, 202); err != nil {
		t.Fatalf("submit q20: %v", err)
	}
	if _, err := svc.Next(ctx, id, ownerID); err != nil {
		t.Fatalf("final Next: %v", err)
	}

	// The rejected retry must not overwrite the recorded wrong answer.
	result, err := svc.Finalize(ctx, id, ownerID)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if result.Score != 1 {
		t.Errorf("score = %d, want 1 (first outcome kept)", result.Score)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	handle, err := svc.Start(ctx, quizID, ownerID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := handle.AttemptID

	// Option from a different question.
	if _, err := svc.Submit(ctx, id, ownerID, 10, 201); !errors.Is(err, models.ErrOptionNotInQuestion) {
		t.Errorf("foreign option: got %v, want ErrOptionNotInQuestion", err)
	}
	// Unknown option id.
	if _, err := svc.Submit(ctx, id, ownerID, 10, 999); !errors.Is(err, models.ErrOptionNotInQuestion) {
		t.Errorf("unknown option: got %v, want ErrOptionNotInQuestion", err)
	}
	// Question that is not under the cursor.
	if _, err := svc.Submit(ctx, id, ownerID, 20, 202); !errors.Is(err, models.ErrNotCurrentQuestion) {
		t.Errorf("out-of-turn question: got %v, want ErrNotCurrentQuestion", err)
	}
	// None of the rejected submissions may count as answers.
	progress, err := svc.Progress(ctx, id, ownerID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if progress.AnsweredCount != 0 {
		t.Errorf("answered count = %d after rejected submissions, want 0", progress.AnsweredCount)
	}
}

func TestNextRequiresAnswer(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	handle, err := svc.Start(ctx, quizID, ownerID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.Next(ctx, handle.AttemptID, ownerID); !errors.Is(err, models.ErrQuestionUnanswered) {
		t.Errorf("skip: got %v, want ErrQuestionUnanswered", err)
	}
}

func TestFinalizeRequiresAllAnswers(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	handle, err := svc.Start(ctx, quizID, ownerID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := handle.AttemptID

	if _, err := svc.Finalize(ctx, id, ownerID); !errors.Is(err, models.ErrAttemptNotComplete) {
		t.Errorf("fresh attempt: got %v, want ErrAttemptNotComplete", err)
	}

	if _, err := svc.Submit(ctx, id, ownerID, 10, 101); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Finalize(ctx, id, ownerID); !errors.Is(err, models.ErrAttemptNotComplete) {
		t.Errorf("half-answered attempt: got %v, want ErrAttemptNotComplete", err)
	}
}

func TestSubmitAfterCompletion(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	handle, err := svc.Start(ctx, quizID, ownerID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := handle.AttemptID
	runThrough(t, svc, id)

	if _, err := svc.Finalize(ctx, id, ownerID); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if _, err := svc.Submit(ctx, id, ownerID, 10, 101); !errors.Is(err, models.ErrAttemptCompleted) {
		t.Errorf("submit after completion: got %v, want ErrAttemptCompleted", err)
	}

	// Next on an exhausted run is a no-op completion signal, not an error.
	next, err := svc.Next(ctx, id, ownerID)
	if err != nil {
		t.Fatalf("Next after completion: %v", err)
	}
	if !next.IsComplete {
		t.Error("expected completion signal from Next on an exhausted run")
	}
}

func TestRetakesAreIndependent(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	first, err := svc.Start(ctx, quizID, ownerID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	runThrough(t, svc, first.AttemptID)
	if _, err := svc.Finalize(ctx, first.AttemptID, ownerID); err != nil {
		t.Fatalf("finalize first: %v", err)
	}

	second, err := svc.Retake(ctx, quizID, ownerID)
	if err != nil {
		t.Fatalf("Retake: %v", err)
	}
	if second.AttemptID == first.AttemptID {
		t.Fatal("retake reused the previous attempt")
	}
	if second.CurrentQuestionIndex != 0 {
		t.Errorf("retake cursor = %d, want 0", second.CurrentQuestionIndex)
	}

	// A perfect second run does not disturb the first result.
	if _, err := svc.Submit(ctx, second.AttemptID, ownerID, 10, 101); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Next(ctx, second.AttemptID, ownerID); err != nil {
		t.Fatalf("next: %v", err)
	}
	if _, err := svc.Submit(ctx, second.AttemptID, ownerID, 20, 202); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Next(ctx, second.AttemptID, ownerID); err != nil {
		t.Fatalf("next: %v", err)
	}

	secondResult, err := svc.Finalize(ctx, second.AttemptID, ownerID)
	if err != nil {
		t.Fatalf("finalize second: %v", err)
	}
	if secondResult.Percentage != 100 {
		t.Errorf("second run percentage = %d, want 100", secondResult.Percentage)
	}
	firstResult, err := svc.Finalize(ctx, first.AttemptID, ownerID)
	if err != nil {
		t.Fatalf("re-finalize first: %v", err)
	}
	if firstResult.Percentage != 50 {
		t.Errorf("first run percentage = %d, want 50", firstResult.Percentage)
	}
}

func TestAttemptOwnership(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	handle, err := svc.Start(ctx, quizID, ownerID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := handle.AttemptID

	if _, err := svc.Submit(ctx, id, strangerID, 10, 101); !errors.Is(err, models.ErrNotAttemptOwner) {
		t.Errorf("stranger submit: got %v, want ErrNotAttemptOwner", err)
	}
	if _, err := svc.Next(ctx, id, strangerID); !errors.Is(err, models.ErrNotAttemptOwner) {
		t.Errorf("stranger next: got %v, want ErrNotAttemptOwner", err)
	}
	if _, err := svc.Finalize(ctx, id, strangerID); !errors.Is(err, models.ErrNotAttemptOwner) {
		t.Errorf("stranger finalize: got %v, want ErrNotAttemptOwner", err)
	}
	if _, err := svc.Progress(ctx, id, strangerID); !errors.Is(err, models.ErrNotAttemptOwner) {
		t.Errorf("stranger progress: got %v, want ErrNotAttemptOwner", err)
	}
}

func TestProgressAndList(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	handle, err := svc.Start(ctx, quizID, ownerID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := handle.AttemptID

	if _, err := svc.Submit(ctx, id, ownerID, 10, 101); err != nil {
		t.Fatalf("submit: %v", err)
	}

	progress, err := svc.Progress(ctx, id, ownerID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if progress.Status != models.AttemptStatusInProgress {
		t.Errorf("status = %q, want in_progress", progress.Status)
	}
	if progress.CurrentQuestionIndex != 0 || progress.AnsweredCount != 1 {
		t.Errorf("progress = (index %d, answered %d), want (0, 1)", progress.CurrentQuestionIndex, progress.AnsweredCount)
	}
	if progress.CurrentQuestion == nil || progress.CurrentQuestion.ID != 10 {
		t.Errorf("current question = %+v, want question 10", progress.CurrentQuestion)
	}

	attempts, err := svc.List(ctx, ownerID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(attempts) != 1 || attempts[0].ID != id {
		t.Errorf("list = %+v, want the single started attempt", attempts)
	}
	if others, _ := svc.List(ctx, strangerID); len(others) != 0 {
		t.Errorf("stranger list = %d attempts, want 0", len(others))
	}
}

// runThrough answers question 10 correctly and question 20 incorrectly,
// advancing past both.
func runThrough(t *testing.T, svc *AttemptService, attemptID uint) {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.Submit(ctx, attemptID, ownerID, 10, 101); err != nil {
		t.Fatalf("submit q10: %v", err)
	}
	if _, err := svc.Next(ctx, attemptID, ownerID); err != nil {
		t.Fatalf("next: %v", err)
	}
	if _, err := svc.Submit(ctx, attemptID, ownerID, 20, 203); err != nil {
		t.Fatalf("submit q20: %v", err)
	}
	if _, err := svc.Next(ctx, attemptID, ownerID); err != nil {
		t.Fatalf("final next: %v", err)
	}
}
