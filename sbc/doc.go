// Package sbc is the client facade for the rgpiod daemon.
//
// Connect opens two TCP connections to the daemon: a control session that
// carries one command at a time, and a notification stream whose alerts are
// dispatched to handlers registered with Client.Callback. Every remote
// operation is a method on Client.
//
// Results follow the error mode of the connection config. With
// session.RaiseErrors a negative daemon status is returned as an error
// wrapping errcode.Code; with session.ReturnCodes it is returned as the
// integer result and the error is nil. Transport failures are always
// returned as errors wrapping errcode.CmdInterrupted.
//
//	cfg, _ := session.ConfigFromEnv()
//	client, err := sbc.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Stop()
//
//	h, err := client.GpiochipOpen(0)
//	...
//	_, err = client.ClaimAlert(h, 17, sbc.BothEdges, 0, -1)
//	...
//	reg, err := client.Callback(h, 17, sbc.BothEdges, notify.HandlerFunc(func(ev notify.Event) {
//		fmt.Println(ev.Chip, ev.Line, ev.Level, ev.Tick)
//	}))
package sbc
