/*
Package store drives an enhanced reducer.

A Store holds the latest combined state, applies dispatched actions one at a
time and notifies subscribers and lifecycle hooks after each transition. It is
the only stateful piece of the module: the enhancer and the history log stay
pure values, and the store merely keeps the newest one.
*/
package store
