package socket

import (
	"log"

	"tably_server/models"

	socketio "github.com/googollee/go-socket.io"
)

// NewSocketServer initializes the Socket.IO server. Clients join a per-pool room
// and receive match events for that pool.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "joinPool", func(c socketio.Conn, poolID string) {
		if poolID == "" {
			log.Println("❌ Invalid poolId in joinPool request")
			return
		}
		log.Printf("👥 Client %s joined pool room %s\n", c.ID(), poolID)
		c.Join(poolID)
	})

	server.OnEvent("/", "leavePool", func(c socketio.Conn, poolID string) {
		if poolID != "" {
			c.Leave(poolID)
		}
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	return server
}

// Broadcaster fans committed-match events out to a pool's room. Delivery
// (push notification, reward issuance) is the subscribers' responsibility,
// keyed idempotently by groupId / pairId.
type Broadcaster struct {
	Server *socketio.Server
}

// EmitGroupFormed broadcasts one committed group to its pool's room
func (b *Broadcaster) EmitGroupFormed(event models.GroupFormedEvent) {
	log.Printf("📣 GroupFormed: pool %s group %s (%d members, %s)",
		event.PoolID, event.GroupID, len(event.MemberIDs), event.TemperatureLevel)
	b.Server.BroadcastToRoom("/", event.PoolID, "groupFormed", event)
}

// EmitInvitationReward broadcasts a reward-eligible invitation pair
func (b *Broadcaster) EmitInvitationReward(event models.InvitationRewardEvent) {
	log.Printf("🎁 InvitationRewardEligible: pool %s pair %s", event.PoolID, event.PairID)
	b.Server.BroadcastToRoom("/", event.PoolID, "invitationReward", event)
}
