// Package location tracks where every node a process knows about — LOCAL
// or DISTANT — currently lives, and keeps that view converged across the
// cluster via a three-phase synchronous protocol (updateLocations).
//
// Every id's origin rank (id.Rank) is that id's location oracle:
// whichever process allocated the id is the one other processes ask when
// they need to find a DISTANT node whose current location they don't
// already know.
package location
