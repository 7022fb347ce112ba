package model

// League is a tournament partition
type League string

const (
	LeagueMen   League = "men"
	LeagueWomen League = "women"
)

// Leagues returns all leagues in display order
func Leagues() []League {
	return []League{LeagueMen, LeagueWomen}
}

// Valid reports whether l is a known league
func (l League) Valid() bool {
	return l == LeagueMen || l == LeagueWomen
}

// Label returns the human-readable league name
func (l League) Label() string {
	switch l {
	case LeagueMen:
		return "Men's"
	case LeagueWomen:
		return "Women's"
	default:
		return string(l)
	}
}

// Relationship describes how the player relates to the registering club member
type Relationship string

const (
	RelationshipSelf   Relationship = "Self"
	RelationshipSpouse Relationship = "Spouse"
	RelationshipWard   Relationship = "Ward"
)

// Relationships returns the relationships permitted in a league
func (l League) Relationships() []Relationship {
	switch l {
	case LeagueMen:
		return []Relationship{RelationshipSelf, RelationshipSpouse}
	case LeagueWomen:
		return []Relationship{RelationshipSelf, RelationshipSpouse, RelationshipWard}
	default:
		return nil
	}
}

// Allows reports whether r is permitted in league l
func (l League) Allows(r Relationship) bool {
	for _, allowed := range l.Relationships() {
		if allowed == r {
			return true
		}
	}
	return false
}

// Valid reports whether r is a known relationship in any league
func (r Relationship) Valid() bool {
	return r == RelationshipSelf || r == RelationshipSpouse || r == RelationshipWard
}

// PlayerProfile is the playing-role classification
type PlayerProfile string

const (
	ProfileBatter            PlayerProfile = "Batter"
	ProfileBowler            PlayerProfile = "Bowler"
	ProfileBattingAllrounder PlayerProfile = "Batting Allrounder"
	ProfileBowlingAllrounder PlayerProfile = "Bowling Allrounder"
	ProfileWicketKeeper      PlayerProfile = "Wicket Keeper"
)

// Profiles returns all player profiles in display order
func Profiles() []PlayerProfile {
	return []PlayerProfile{
		ProfileBatter,
		ProfileBowler,
		ProfileBattingAllrounder,
		ProfileBowlingAllrounder,
		ProfileWicketKeeper,
	}
}

// Valid reports whether p is a known profile
func (p PlayerProfile) Valid() bool {
	for _, known := range Profiles() {
		if known == p {
			return true
		}
	}
	return false
}

// IsAllrounder reports whether p is either allrounder profile
func (p PlayerProfile) IsAllrounder() bool {
	return p == ProfileBattingAllrounder || p == ProfileBowlingAllrounder
}

// BattingStyle is the batter's handedness
type BattingStyle string

const (
	BattingRight BattingStyle = "Right"
	BattingLeft  BattingStyle = "Left"
)

// BattingStyles returns all batting styles
func BattingStyles() []BattingStyle {
	return []BattingStyle{BattingRight, BattingLeft}
}

// Valid reports whether s is a known batting style
func (s BattingStyle) Valid() bool {
	return s == BattingRight || s == BattingLeft
}

// BowlingStyle is the bowler's arm and type
type BowlingStyle string

const (
	BowlingRightPace BowlingStyle = "Right Pace"
	BowlingRightSpin BowlingStyle = "Right Spin"
	BowlingLeftPace  BowlingStyle = "Left Pace"
	BowlingLeftSpin  BowlingStyle = "Left Spin"
)

// BowlingStyles returns all bowling styles
func BowlingStyles() []BowlingStyle {
	return []BowlingStyle{BowlingRightPace, BowlingRightSpin, BowlingLeftPace, BowlingLeftSpin}
}

// Valid reports whether s is a known bowling style
func (s BowlingStyle) Valid() bool {
	for _, known := range BowlingStyles() {
		if known == s {
			return true
		}
	}
	return false
}
