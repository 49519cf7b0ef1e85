package semaphore

// Version is the library version reported in the User-Agent header.
const Version = "0.1.0"
