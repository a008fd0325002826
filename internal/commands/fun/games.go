package fun

import (
	"fmt"
	"strings"
)

// Intn returns a number in [0, n).
type Intn func(n int) int

var eightBallAnswers = []string{
	"It is certain.",
	"It is decidedly so.",
	"Without a doubt.",
	"Yes definitely.",
	"You may rely on it.",
	"As I see it, yes.",
	"Most likely.",
	"Outlook good.",
	"Yes.",
	"Signs point to yes.",

	"Reply hazy, try again.",
	"Ask again later.",
	"Better not tell you now.",
	"Cannot predict now.",
	"Concentrate and ask again.",

	"Don't count on it.",
	"My reply is no.",
	"My sources say no.",
	"Outlook not so good.",
	"Very doubtful.",
}

// EightBall draws an answer and its colour: green, yellow or red for
// positive, neutral and negative answers.
func EightBall(intn Intn) (string, int) {
	i := intn(len(eightBallAnswers))
	switch {
	case i < 10:
		return eightBallAnswers[i], 0x00ff00
	case i < 15:
		return eightBallAnswers[i], 0xffff00
	default:
		return eightBallAnswers[i], 0xff0000
	}
}

// CoinFlips is the outcome of flipping a coin several times.
type CoinFlips struct {
	Results []string
	Heads   int
	Tails   int
}

// Stats renders the heads/tails split with percentages.
func (c CoinFlips) Stats() string {
	n := float64(len(c.Results))
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("Heads: %d (%.1f%%)\nTails: %d (%.1f%%)",
		c.Heads, float64(c.Heads)/n*100, c.Tails, float64(c.Tails)/n*100)
}

func FlipCoins(times int, intn Intn) CoinFlips {
	var c CoinFlips
	for i := 0; i < times; i++ {
		if intn(2) == 0 {
			c.Results = append(c.Results, "Heads")
			c.Heads++
		} else {
			c.Results = append(c.Results, "Tails")
			c.Tails++
		}
	}
	return c
}

// DiceRoll is the outcome of rolling count dice with the given sides.
type DiceRoll struct {
	Sides int
	Rolls []int
	Total int
}

func RollDice(sides, count int, intn Intn) DiceRoll {
	r := DiceRoll{Sides: sides, Rolls: make([]int, 0, count)}
	for i := 0; i < count; i++ {
		v := intn(sides) + 1
		r.Rolls = append(r.Rolls, v)
		r.Total += v
	}
	return r
}

func (r DiceRoll) Average() float64 {
	if len(r.Rolls) == 0 {
		return 0
	}
	return float64(r.Total) / float64(len(r.Rolls))
}

// CriticalSuccess reports whether any die rolled the maximum.
func (r DiceRoll) CriticalSuccess() bool {
	for _, v := range r.Rolls {
		if v == r.Sides {
			return true
		}
	}
	return false
}

// CriticalFail reports whether any die rolled a 1.
func (r DiceRoll) CriticalFail() bool {
	for _, v := range r.Rolls {
		if v == 1 {
			return true
		}
	}
	return false
}

func (r DiceRoll) Joined() string {
	parts := make([]string, len(r.Rolls))
	for i, v := range r.Rolls {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

// RPSChoice is a rock-paper-scissors hand.
type RPSChoice string

const (
	Rock     RPSChoice = "rock"
	Paper    RPSChoice = "paper"
	Scissors RPSChoice = "scissors"
)

var rpsChoices = []RPSChoice{Rock, Paper, Scissors}

var beats = map[RPSChoice]RPSChoice{
	Rock:     Scissors,
	Paper:    Rock,
	Scissors: Paper,
}

var rpsEmoji = map[RPSChoice]string{
	Rock:     "🪨",
	Paper:    "📄",
	Scissors: "✂️",
}

func ParseRPSChoice(s string) (RPSChoice, bool) {
	c := RPSChoice(strings.ToLower(strings.TrimSpace(s)))
	_, ok := beats[c]
	return c, ok
}

// Label renders the hand with its emoji, e.g. "🪨 Rock".
func (c RPSChoice) Label() string {
	s := string(c)
	if s == "" {
		return ""
	}
	return rpsEmoji[c] + " " + strings.ToUpper(s[:1]) + s[1:]
}

// RPSOutcome is the result of one game from the player's side.
type RPSOutcome int

const (
	Tie RPSOutcome = iota
	Win
	Lose
)

func (o RPSOutcome) String() string {
	switch o {
	case Win:
		return "You win!"
	case Lose:
		return "I win!"
	default:
		return "It's a tie!"
	}
}

func (o RPSOutcome) Color() int {
	switch o {
	case Win:
		return 0x00ff00
	case Lose:
		return 0xff0000
	default:
		return 0xffff00
	}
}

// PlayRPS draws the bot's hand and scores the game.
func PlayRPS(player RPSChoice, intn Intn) (RPSChoice, RPSOutcome) {
	bot := rpsChoices[intn(len(rpsChoices))]
	switch {
	case player == bot:
		return bot, Tie
	case beats[player] == bot:
		return bot, Win
	default:
		return bot, Lose
	}
}
