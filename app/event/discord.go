package event

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/bobylevd/team-balancer/app/balance"
	"github.com/bobylevd/team-balancer/app/report"
	"github.com/bobylevd/team-balancer/app/store"
)

// maxMessageLen is the Discord limit for the message content.
const maxMessageLen = 2000

// Discord is a handler for Discord commands.
type Discord struct {
	Token          string
	AdminIDs       []string
	Service        *store.Service
	TeamCount      int
	TeamCapacity   int
	Strategy       balance.Strategy
	HandlerTimeout time.Duration
	se             *discordgo.Session
}

// Run runs the Discord handler.
// Blocking call.
func (d *Discord) Run(ctx context.Context) error {
	if d.HandlerTimeout == 0 {
		d.HandlerTimeout = 5 * time.Second
	}

	se, err := discordgo.New(fmt.Sprintf("Bot %s", d.Token))
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}

	d.se = se
	d.se.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	d.se.AddHandler(d.onMessage)

	log.Printf("[INFO] opening discord session")
	if err := d.se.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	<-ctx.Done()

	log.Printf("[WARN] stopping bot with reason: %v", context.Cause(ctx))
	if err := d.se.Close(); err != nil {
		return fmt.Errorf("close discord session: %w", err)
	}

	return nil
}

func (d *Discord) onMessage(s *discordgo.Session, msg *discordgo.MessageCreate) {
	if msg.Author.ID == s.State.User.ID {
		return // ignore messages from the bot
	}

	log.Printf("[DEBUG] received message from %s: %s", msg.ChannelID, msg.Content)

	content := strings.TrimSpace(msg.Content)
	if content == "" || !strings.HasPrefix(content, "!") {
		return // do nothing
	}

	command := d.route(content, msg.Author.ID)
	if command == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.HandlerTimeout)
	defer cancel()

	args := strings.Fields(content)[1:] // first word is the command itself

	reply, err := command(ctx, args)
	if err != nil {
		log.Printf("[WARN] failed to execute command: %v", err)
		reply = "failed to execute command, check logs"
	}

	replyTo := &discordgo.MessageReference{MessageID: msg.ID, ChannelID: msg.ChannelID}
	if err = d.send(s, msg.ChannelID, reply, replyTo); err != nil {
		log.Printf("[WARN] failed to send message: %v", err)
	}
}

type command func(ctx context.Context, args []string) (reply string, err error)

func (d *Discord) route(content, authorID string) command {
	name := strings.Fields(content)[0]
	switch {
	case name == "!teams" && d.isAdmin(authorID):
		return d.teams
	case name == "!last":
		return d.last
	case name == "!roster":
		return d.roster
	case name == "!ping":
		return d.ping
	case name == "!help":
		return d.help
	default:
		return nil
	}
}

// send replies with a code block, a reply that does not fit into a message
// is attached as a text file.
func (d *Discord) send(s *discordgo.Session, channelID, reply string, ref *discordgo.MessageReference) error {
	if len(reply) <= maxMessageLen {
		_, err := s.ChannelMessageSendReply(channelID, reply, ref)
		return err
	}

	_, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:   "result is too long, see attachment",
		Reference: ref,
		Files: []*discordgo.File{{
			Name:        "teams.txt",
			ContentType: "text/plain",
			Reader:      strings.NewReader(strings.Trim(reply, "`\n")),
		}},
	})
	return err
}

func (d *Discord) teams(ctx context.Context, args []string) (string, error) {
	req, err := d.parseTeamsArgs(args)
	if err != nil {
		return err.Error(), nil
	}

	b, err := d.Service.Balance(ctx, req)
	if err != nil {
		var missing store.ErrMissing
		if errors.As(err, &missing) {
			return missing.Error(), nil
		}
		if errors.Is(err, balance.ErrInvalidParameter) {
			return "team count and size must be positive", nil
		}
		return "", fmt.Errorf("balance teams: %w", err)
	}

	return codeBlock(report.Teams(b)), nil
}

// parseTeamsArgs reads an optional leading team count followed by player names.
func (d *Discord) parseTeamsArgs(args []string) (store.BalanceRequest, error) {
	req := store.BalanceRequest{
		TeamCount:    d.TeamCount,
		TeamCapacity: d.TeamCapacity,
		Strategy:     d.Strategy,
		Save:         true,
	}
	if req.TeamCapacity == 0 {
		req.TeamCapacity = balance.DefaultTeamCapacity
	}

	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			if n < 1 {
				return store.BalanceRequest{}, errors.New("usage: !teams [count] [name ...], count must be positive")
			}
			req.TeamCount = n
			args = args[1:]
		}
	}
	req.Names = args

	if req.TeamCount == 0 {
		req.TeamCount = 2
	}

	return req, nil
}

func (d *Discord) last(ctx context.Context, _ []string) (string, error) {
	b, err := d.Service.Last(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "no teams were selected yet", nil
		}
		return "", fmt.Errorf("last balance: %w", err)
	}
	return codeBlock(report.Teams(b)), nil
}

func (d *Discord) roster(ctx context.Context, _ []string) (string, error) {
	players, err := d.Service.Roster(ctx)
	if err != nil {
		return "", fmt.Errorf("roster: %w", err)
	}
	return codeBlock(report.Roster(players)), nil
}

func (d *Discord) isAdmin(discordID string) bool {
	for _, id := range d.AdminIDs {
		if discordID == id {
			return true
		}
	}
	return false
}

func (d *Discord) ping(context.Context, []string) (string, error) { return "pong!", nil }

func (d *Discord) help(context.Context, []string) (reply string, err error) {
	return `
!teams [count] [name1 name2 ...] - admins only, split the roster (or the named players) into teams
!last - show the last selected teams
!roster - list registered players
!ping - pong!
!help - this message
	`, nil
}

func codeBlock(s string) string { return "```\n" + s + "\n```" }
