package protocol

// Websocket message types. The envelope type is the payload struct name.
const (
	MsgClick  = "Click"
	MsgPause  = "Pause"
	MsgResume = "Resume"
	MsgSync   = "Sync"

	MsgHello         = "Hello"
	MsgEnemySpawned  = "EnemySpawned"
	MsgEnemyHP       = "EnemyHP"
	MsgEnemyDefeated = "EnemyDefeated"
	MsgHatched       = "Hatched"
	MsgBossTimeout   = "BossTimeout"
	MsgPlayerSynced  = "PlayerSynced"
	MsgStateChanged  = "StateChanged"
	MsgError         = "Error"
)

// Damage sources reported in EnemyHP.
const (
	SourceClick = "click"
	SourceTeam  = "team"
)

// Combat session states.
const (
	StateIdle       = "idle"
	StateFighting   = "fighting"
	StateRespawning = "respawning"
	StatePaused     = "paused"
)
