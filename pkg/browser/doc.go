// Package browser attaches to the operator's running Chromium and exposes the
// open HighLevel tab as an extract.Page.
//
// The panel never launches its own browser. The operator starts Chromium with
// remote debugging enabled (for example --remote-debugging-port=9222) and
// keeps the customer record open; Attach connects over the Chrome DevTools
// Protocol and picks the first tab whose URL matches the host pattern.
//
// Values are read from the live DOM rather than from serialized HTML, so text
// typed into reactive inputs is seen even before the page persists it.
package browser
