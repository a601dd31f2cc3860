package stats

// Achievement is an unlockable badge.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	unlocked    func(r Record, g Game) bool
}

// Thresholds for achievements.
const (
	streakMasterStreak = 5
	quickGuessAttempts = 3
	tenWinsWins        = 10
	hintMasterHints    = 3
	veteranGames       = 50
	goalScorerGoals    = 10
	assistKingAssists  = 10
)

// Achievements lists every badge in display order.
var Achievements = []Achievement{
	{ID: "firstWin", Name: "First Win", Description: "Win your first game",
		unlocked: func(r Record, g Game) bool { return g.Won && r.Wins >= 1 }},
	{ID: "streakMaster", Name: "Streak Master", Description: "Achieve a streak of 5 wins",
		unlocked: func(r Record, g Game) bool { return r.CurrentStreak >= streakMasterStreak }},
	{ID: "quickGuess", Name: "Quick Guess", Description: "Win in 3 guesses or fewer",
		unlocked: func(r Record, g Game) bool { return g.Won && g.Attempts <= quickGuessAttempts }},
	{ID: "perfectGame", Name: "Perfect Game", Description: "Win in 1 guess",
		unlocked: func(r Record, g Game) bool { return g.Won && g.Attempts == 1 }},
	{ID: "tenWins", Name: "Ten Wins", Description: "Win 10 games",
		unlocked: func(r Record, g Game) bool { return r.Wins >= tenWinsWins }},
	{ID: "hintMaster", Name: "Hint Master", Description: "Win a game after using 3 hints",
		unlocked: func(r Record, g Game) bool { return g.Won && g.Hints >= hintMasterHints }},
	{ID: "noHints", Name: "No Hints", Description: "Win a game without using any hints",
		unlocked: func(r Record, g Game) bool { return g.Won && g.Hints == 0 }},
	{ID: "timedChallenge", Name: "Timed Challenge", Description: "Win a game in Timed Mode",
		unlocked: func(r Record, g Game) bool { return g.Won && g.Timed }},
	{ID: "veteran", Name: "Veteran", Description: "Play 50 games",
		unlocked: func(r Record, g Game) bool { return r.TotalGames >= veteranGames }},
	{ID: "goalScorer", Name: "Goal Scorer", Description: "Guess a player with 10+ goals",
		unlocked: func(r Record, g Game) bool { return g.Won && g.TargetGoals >= goalScorerGoals }},
	{ID: "assistKing", Name: "Assist King", Description: "Guess a player with 10+ assists",
		unlocked: func(r Record, g Game) bool { return g.Won && g.TargetAssists >= assistKingAssists }},
}

// Game summarises one finished session.
type Game struct {
	Won           bool
	Attempts      int
	Hints         int
	Timed         bool
	TargetGoals   int
	TargetAssists int
}

// Record is a player's running totals.
type Record struct {
	TotalGames    int      `json:"totalGames"`
	Wins          int      `json:"wins"`
	CurrentStreak int      `json:"currentStreak"`
	MaxStreak     int      `json:"maxStreak"`
	Achievements  []string `json:"achievements"`
}

// WinRate is wins/total as a percentage, 0 with no games.
func (r Record) WinRate() float64 {
	if r.TotalGames == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.TotalGames) * 100
}

// Has reports whether the achievement id is unlocked.
func (r Record) Has(id string) bool {
	for _, a := range r.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// Apply folds g into r and returns the ids of newly unlocked achievements.
// A loss of any kind resets the current streak.
func (r *Record) Apply(g Game) []string {
	r.TotalGames++
	if g.Won {
		r.Wins++
		r.CurrentStreak++
		if r.CurrentStreak > r.MaxStreak {
			r.MaxStreak = r.CurrentStreak
		}
	} else {
		r.CurrentStreak = 0
	}

	var fresh []string
	for _, a := range Achievements {
		if r.Has(a.ID) || !a.unlocked(*r, g) {
			continue
		}
		r.Achievements = append(r.Achievements, a.ID)
		fresh = append(fresh, a.ID)
	}
	return fresh
}
